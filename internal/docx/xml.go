package docx

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
)

const xmlNamespace = "http://www.w3.org/XML/1998/namespace"

// span is the character-data byte range of one w:t element. tagStart is
// the offset of its start tag; the tag ends at start.
type span struct {
	tagStart   int
	start, end int
	text       string
	inTable    bool
	spaceAttr  bool
}

// scanSpans locates every w:t element's text in a WordprocessingML part.
func scanSpans(data []byte) ([]span, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var (
		spans    []span
		cur      span
		inText   bool
		tblDepth int
	)
	for {
		prev := int(dec.InputOffset())
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != wordNS {
				continue
			}
			switch t.Name.Local {
			case "tbl":
				tblDepth++
			case "t":
				off := int(dec.InputOffset())
				cur = span{tagStart: prev, start: off, end: off, inTable: tblDepth > 0, spaceAttr: hasSpaceAttr(t)}
				inText = true
			}
		case xml.CharData:
			if inText {
				cur.text += string(t)
				cur.end = int(dec.InputOffset())
			}
		case xml.EndElement:
			if t.Name.Space != wordNS {
				continue
			}
			switch t.Name.Local {
			case "tbl":
				tblDepth--
			case "t":
				if inText {
					spans = append(spans, cur)
					inText = false
				}
			}
		}
	}
	return spans, nil
}

// fillPart rewrites the text of runs holding placeholders and copies every
// other byte of the part unchanged.
func fillPart(data []byte, values map[string]string) ([]byte, int, error) {
	spans, err := scanSpans(data)
	if err != nil {
		return nil, 0, err
	}
	var out bytes.Buffer
	out.Grow(len(data))
	last, total := 0, 0
	for _, s := range spans {
		replaced, n := ReplacePlaceholders(s.text, values)
		if n == 0 {
			continue
		}
		if err := writeText(&out, data, last, s, replaced); err != nil {
			return nil, 0, err
		}
		last = s.end
		total += n
	}
	if total == 0 {
		return data, 0, nil
	}
	out.Write(data[last:])
	return out.Bytes(), total, nil
}

// hasSpaceAttr reports whether t already sets xml:space.
func hasSpaceAttr(t xml.StartElement) bool {
	for _, a := range t.Attr {
		if a.Name.Local == "space" && (a.Name.Space == xmlNamespace || a.Name.Space == "xml") {
			return true
		}
	}
	return false
}

// writeText copies data[last:s.start] and then the replaced text of s.
// Text with edge whitespace gets xml:space="preserve" so Word keeps it,
// and each newline becomes a w:br between text elements of the same run.
func writeText(out *bytes.Buffer, data []byte, last int, s span, text string) error {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	needPreserve := !s.spaceAttr && (len(lines) > 1 || strings.TrimSpace(text) != text)
	if needPreserve && s.start > s.tagStart && data[s.start-1] == '>' && data[s.start-2] != '/' {
		out.Write(data[last : s.start-1])
		out.WriteString(` xml:space="preserve">`)
	} else {
		out.Write(data[last:s.start])
	}

	qname := tagName(data[s.tagStart:s.start])
	prefix := strings.TrimSuffix(qname, "t")
	for i, line := range lines {
		if i > 0 {
			out.WriteString("</" + qname + "><" + prefix + "br/><" + qname + ` xml:space="preserve">`)
		}
		if err := xml.EscapeText(out, []byte(line)); err != nil {
			return err
		}
	}
	return nil
}

// tagName returns the qualified element name of a raw start tag, e.g. "w:t".
func tagName(tag []byte) string {
	name := strings.TrimPrefix(string(tag), "<")
	if i := strings.IndexAny(name, " \t\r\n/>"); i >= 0 {
		name = name[:i]
	}
	return name
}
