// Package facility loads the directory of sites records can be requested
// from.
package facility

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gyeh/mrrequest/internal/normalize"
	"github.com/gyeh/mrrequest/internal/smartrequest"
)

// Columns every directory file must carry.
var requiredColumns = []string{"site", "siteName", "city", "state"}

// Site is one facility row.
type Site struct {
	Site         string
	SiteName     string
	HealthSystem string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	Zip          string
	Phone        string
	Fax          string
}

// Payload returns the site as a request facility.
func (s Site) Payload() smartrequest.Facility {
	return smartrequest.Facility{
		AddressLine1: s.AddressLine1,
		City:         s.City,
		State:        s.State,
		Zip:          s.Zip,
		HealthSystem: s.HealthSystem,
		SiteName:     s.SiteName,
		Phone:        s.Phone,
		Fax:          s.Fax,
	}
}

// Directory is an in-memory, read-only facility list built once at
// startup.
type Directory struct {
	sites  []Site
	bySite map[string]int
	byName map[string]int
}

// Load reads a directory CSV file.
func Load(path string) (*Directory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open facility directory: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses a directory CSV with a header row. Column order is free.
func Read(r io.Reader) (*Directory, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("facility directory: empty file")
		}
		return nil, fmt.Errorf("facility directory header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := col[c]; !ok {
			return nil, fmt.Errorf("facility directory: missing column %q", c)
		}
	}

	d := New(nil)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("facility directory row: %w", err)
		}
		get := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		if get("site") == "" && get("siteName") == "" {
			continue
		}
		d.add(Site{
			Site:         get("site"),
			SiteName:     get("siteName"),
			HealthSystem: get("healthSystem"),
			AddressLine1: get("addressLine1"),
			AddressLine2: get("addressLine2"),
			City:         get("city"),
			State:        get("state"),
			Zip:          get("zip"),
			Phone:        normalize.Phone(get("phone")),
			Fax:          normalize.Phone(get("fax")),
		})
	}
	return d, nil
}

// New builds a Directory from sites, keeping their order.
func New(sites []Site) *Directory {
	d := &Directory{bySite: map[string]int{}, byName: map[string]int{}}
	for _, s := range sites {
		d.add(s)
	}
	return d
}

func (d *Directory) add(s Site) {
	i := len(d.sites)
	d.sites = append(d.sites, s)
	if _, dup := d.bySite[s.Site]; !dup && s.Site != "" {
		d.bySite[s.Site] = i
	}
	if key := normalize.NormalizeName(s.SiteName); key != "" {
		if _, dup := d.byName[key]; !dup {
			d.byName[key] = i
		}
	}
}

func (d *Directory) Len() int { return len(d.sites) }

// Sites returns a copy of every site in file order.
func (d *Directory) Sites() []Site {
	return append([]Site(nil), d.sites...)
}

// BySite looks a facility up by its site number.
func (d *Directory) BySite(site string) (Site, bool) {
	i, ok := d.bySite[strings.TrimSpace(site)]
	if !ok {
		return Site{}, false
	}
	return d.sites[i], true
}

// ByName matches a hospital name against siteName, ignoring case and
// spacing.
func (d *Directory) ByName(name string) (Site, bool) {
	i, ok := d.byName[normalize.NormalizeName(name)]
	if !ok {
		return Site{}, false
	}
	return d.sites[i], true
}

// First is the first facility of the file.
func (d *Directory) First() (Site, bool) {
	if len(d.sites) == 0 {
		return Site{}, false
	}
	return d.sites[0], true
}

// Resolve picks the facility for a case: the site named by hospitalName,
// else defaultSite, else the first facility.
func (d *Directory) Resolve(hospitalName, defaultSite string) (Site, bool) {
	if s, ok := d.ByName(hospitalName); ok {
		return s, true
	}
	if s, ok := d.BySite(defaultSite); ok {
		return s, true
	}
	return d.First()
}
