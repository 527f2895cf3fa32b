package core

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTagsLinesSorted(t *testing.T) {
	tags := Tags{"next": "2.1.0", "latest": "2.0.0", "beta": "3.0.0-beta.1"}

	want := []string{"beta: 3.0.0-beta.1", "latest: 2.0.0", "next: 2.1.0"}
	if diff := cmp.Diff(want, tags.Lines()); diff != "" {
		t.Errorf("Lines() mismatch (-want +got):\n%s", diff)
	}
}

// Sorting happens on the formatted line, so "a-b" sorts before "a:" even
// though "a" < "a-b" as tag names.
func TestTagsLinesSortByFormattedLine(t *testing.T) {
	tags := Tags{"a": "1.0.0", "a-b": "2.0.0"}

	want := []string{"a-b: 2.0.0", "a: 1.0.0"}
	if diff := cmp.Diff(want, tags.Lines()); diff != "" {
		t.Errorf("Lines() mismatch (-want +got):\n%s", diff)
	}
}

func TestTagsClone(t *testing.T) {
	orig := Tags{"latest": "1.0.0"}
	cp := orig.Clone()
	cp["next"] = "2.0.0"

	if _, ok := orig["next"]; ok {
		t.Error("mutating the clone changed the original")
	}
	if Tags(nil).Clone() == nil {
		t.Error("Clone of nil returned a nil map")
	}
}

func TestDocumentJSON(t *testing.T) {
	doc := Document{ID: "react", Rev: "5-abc", DistTags: Tags{"latest": "2.0.0"}}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}

	want := `{"_id":"react","_rev":"5-abc","dist-tags":{"latest":"2.0.0"}}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}
}
