package record

import (
	"maps"
	"testing"
)

func TestMerge_LaterNonEmptyWins(t *testing.T) {
	got := Merge([]map[string]string{
		{"a": "1", "b": "x", "k": ""},
		{"a": "2", "b": ""},
		{"k": "third"},
	})
	want := map[string]string{"a": "2", "b": "x", "k": "third"}
	if !maps.Equal(got, want) {
		t.Errorf("Merge = %v, want %v", got, want)
	}
}

func TestMerge_EmptyEverywhereIsAbsent(t *testing.T) {
	got := Merge([]map[string]string{{"a": ""}, {"a": "  "}})
	if _, ok := got["a"]; ok {
		t.Errorf("key present in no fragment should be absent: %v", got)
	}
}

func TestMerge_Idempotent(t *testing.T) {
	a := map[string]string{"x": "1", "y": ""}
	b := map[string]string{"z": "3"}
	once := Merge([]map[string]string{a, b})
	twice := Merge([]map[string]string{once})
	if !maps.Equal(once, twice) {
		t.Errorf("merge not idempotent: %v vs %v", once, twice)
	}
}

func TestGroupFragments_NoRepeats(t *testing.T) {
	rows := []map[string]string{{"mg_idpreg": "R1"}, {"mg_idpreg": "R1", "hos_name": "H"}}
	groups := GroupFragments(rows)
	if len(groups) != 1 || len(groups[0]) != 2 {
		t.Fatalf("expected one group of 2, got %v", groups)
	}
}

func TestGroupFragments_RepeatInstances(t *testing.T) {
	rows := []map[string]string{
		{"mg_idpreg": "R1", "hos_name": "H"},
		{"mg_idpreg": "R1", "redcap_repeat_instrument": "baby", "redcap_repeat_instance": "1", "bg_sex": "F"},
		{"mg_idpreg": "R1", "redcap_repeat_instrument": "baby", "redcap_repeat_instance": "2", "bg_sex": "M"},
	}
	groups := GroupFragments(rows)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	for i, want := range []string{"F", "M"} {
		merged := Merge(groups[i])
		if merged["hos_name"] != "H" {
			t.Errorf("group %d missing base field: %v", i, merged)
		}
		if merged["bg_sex"] != want {
			t.Errorf("group %d bg_sex = %q, want %q", i, merged["bg_sex"], want)
		}
	}
}

func TestGroupFragments_Empty(t *testing.T) {
	if groups := GroupFragments(nil); groups != nil {
		t.Errorf("expected nil, got %v", groups)
	}
}
