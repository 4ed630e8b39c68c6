package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbar/pkg/model"
	"github.com/goliatone/go-formbar/pkg/render"
)

func TestApplySubset(t *testing.T) {
	cases := map[string]struct {
		subset render.FieldSubset
		want   []string
	}{
		"empty keeps all": {
			want: []string{"a", "b", "c"},
		},
		"include": {
			subset: render.FieldSubset{Include: []string{"c", "a"}},
			want:   []string{"a", "c"},
		},
		"exclude": {
			subset: render.FieldSubset{Exclude: []string{"b"}},
			want:   []string{"a", "c"},
		},
		"exclude wins": {
			subset: render.ParseSubset("a, b, -b"),
			want:   []string{"a"},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			form := model.Form{Fields: []model.Field{{Name: "a"}, {Name: "b"}, {Name: "c"}}}
			render.ApplySubset(&form, tc.subset)

			var got []string
			for _, field := range form.Fields {
				got = append(got, field.Name)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("fields mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseSubset(t *testing.T) {
	got := render.ParseSubset(" a,,-b , - ,c")
	want := render.FieldSubset{Include: []string{"a", "c"}, Exclude: []string{"b"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("subset mismatch (-want +got):\n%s", diff)
	}
}
