package needs

import (
	"testing"

	"github.com/gyeh/mrrequest/internal/classify"
	"github.com/gyeh/mrrequest/internal/record"
)

func baseRecord() record.Record {
	vals := map[string]string{"mg_idpreg": "R1"}
	for _, f := range MaternalFields {
		vals[f] = "0"
	}
	return record.New(record.DetailSchema, vals)
}

func TestApply_FirstRequestMarksEverything(t *testing.T) {
	in := baseRecord()
	out := Apply(classify.FirstRequest, in)
	for _, f := range append(append([]string{}, MaternalFields...), InfantFields...) {
		if out.Get(f) != Needed {
			t.Errorf("%s = %q, want %q", f, out.Get(f), Needed)
		}
	}
	if in.Get("mr_rec_needs___1") != "0" {
		t.Error("input record was modified")
	}
}

func TestApply_SecondRequest(t *testing.T) {
	out := Apply(classify.SecondRequestNotReceived, baseRecord())
	for i, f := range MaternalFields {
		want := Needed
		if i < 4 {
			want = NotNeeded
		}
		if out.Get(f) != want {
			t.Errorf("%s = %q, want %q", f, out.Get(f), want)
		}
	}
	for _, f := range InfantFields {
		if out.Get(f) != Needed {
			t.Errorf("%s = %q, want %q", f, out.Get(f), Needed)
		}
	}
}

func TestApply_PartialUnchanged(t *testing.T) {
	in := baseRecord().With(map[string]string{"mr_rec_needs_inf___3": "1"})
	for _, stage := range []classify.Stage{classify.SecondRequestPartial, classify.AllReceived, classify.None} {
		out := Apply(stage, in)
		for k, v := range in.Map() {
			if out.Get(k) != v {
				t.Errorf("%s: field %s changed from %q to %q", stage, k, v, out.Get(k))
			}
		}
		if len(out.Map()) != len(in.Map()) {
			t.Errorf("%s: field count changed", stage)
		}
	}
}

func TestFieldCatalogue(t *testing.T) {
	if len(MaternalFields) != 14 || len(InfantFields) != 14 {
		t.Fatalf("unexpected field counts %d/%d", len(MaternalFields), len(InfantFields))
	}
	for _, f := range append(append([]string{}, MaternalFields...), InfantFields...) {
		if !record.DetailSchema.Has(f) {
			t.Errorf("%s is not a detail field", f)
		}
	}
	if MaternalFields[4] != "mr_rec_needs___6" || InfantFields[13] != "mr_rec_needs_inf___88" {
		t.Errorf("unexpected ordering: %v %v", MaternalFields, InfantFields)
	}
	if Table(classify.SecondRequestPartial) != nil {
		t.Error("partial stage should have no table")
	}
}
