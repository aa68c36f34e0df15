package binding

import (
	"encoding/json"
	"reflect"
	"testing"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func TestInterpolate(t *testing.T) {
	data := decode(t, `{"project":{"name":"VoxApp","version":2,"regions":["BE","NL"]},"plans":[{"price":99.5}]}`)
	cases := map[string]string{
		"Versie ${project.version}":      "Versie 2",
		"${ project.name } platform":     "VoxApp platform",
		"Regio: ${project.regions}":      "Regio: BE, NL",
		"Regio 1: ${project.regions[1]}": "Regio 1: NL",
		"E${plans[0].price}":             "E99.5",
		"missing ${project.owner} stays": "missing ${project.owner} stays",
		"no placeholders":                "no placeholders",
	}
	for in, want := range cases {
		if got := Interpolate(in, data); got != want {
			t.Fatalf("Interpolate(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestInterpolateNilData(t *testing.T) {
	if got := Interpolate("${a}", nil); got != "${a}" {
		t.Fatalf("nil data should keep placeholder, got %q", got)
	}
}

func TestUnresolved(t *testing.T) {
	data := decode(t, `{"a":{"b":1}}`)
	got := Unresolved("${a.b} ${a.c} ${x[0]}", data)
	if want := []string{"a.c", "x[0]"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Unresolved = %v, want %v", got, want)
	}
}
