package fixedwidth_test

import (
	"fmt"
	"strings"
	"testing"

	fixedwidth "github.com/reoring/fixedwidth"
)

func upperSpec() *fixedwidth.OptionSpec {
	return fixedwidth.NewSpec(
		fixedwidth.OptionDef{
			Name:     "mode",
			Required: true,
			Transform: func(v any) (any, error) {
				s, ok := v.(string)
				if !ok {
					return nil, fmt.Errorf("expected string")
				}
				return strings.ToUpper(s), nil
			},
			Validate: func(v any) error {
				if v.(string) == "" {
					return fmt.Errorf("empty")
				}
				return nil
			},
		},
		fixedwidth.OptionDef{Name: "limit", Default: 10, HasDefault: true},
		fixedwidth.OptionDef{Name: "flag"},
	)
}

func TestOptionSpec_RequiredMissing(t *testing.T) {
	_, err := upperSpec().New(nil)
	if err == nil {
		t.Fatalf("expected error for missing required option")
	}
	if !fixedwidth.HasCode(err, fixedwidth.CodeConfig) {
		t.Fatalf("expected config_error, got %v", err)
	}
}

func TestOptionSpec_TransformAndValidate(t *testing.T) {
	o, err := upperSpec().New(map[string]any{"mode": "strict"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got := o.Get("mode"); got != "STRICT" {
		t.Fatalf("transform not applied, got %v", got)
	}

	_, err = upperSpec().New(map[string]any{"mode": ""})
	if !fixedwidth.HasCode(err, fixedwidth.CodeConfig) {
		t.Fatalf("expected config_error for validator failure, got %v", err)
	}
}

func TestOptionSpec_UnknownKey(t *testing.T) {
	_, err := upperSpec().New(map[string]any{"mode": "x", "bogus": 1})
	if !fixedwidth.HasCode(err, fixedwidth.CodeConfig) {
		t.Fatalf("expected config_error for unknown option, got %v", err)
	}
}

func TestOptions_DefaultAppliesAtRead(t *testing.T) {
	o, err := upperSpec().New(map[string]any{"mode": "x"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got := o.Get("limit"); got != 10 {
		t.Fatalf("expected default 10, got %v", got)
	}
	if _, set := o.Lookup("limit"); set {
		t.Fatalf("default must not count as explicitly set")
	}
}

func TestOptions_MergePrecedence(t *testing.T) {
	spec := upperSpec()
	a, _ := spec.New(map[string]any{"mode": "a"})
	b, _ := spec.New(map[string]any{"mode": "b", "flag": true})

	fill := fixedwidth.MergePolicy{Prefer: fixedwidth.PreferSelf, FillMissing: true}
	if err := a.Merge(b, fill); err != nil {
		t.Fatalf("merge err: %v", err)
	}
	if got := a.Get("mode"); got != "A" {
		t.Fatalf("PreferSelf must keep existing value, got %v", got)
	}
	if got := a.Get("flag"); got != true {
		t.Fatalf("missing key should be filled, got %v", got)
	}

	// idempotent under repetition with identical arguments
	if err := a.Merge(b, fill); err != nil {
		t.Fatalf("second merge err: %v", err)
	}
	if a.Get("mode") != "A" || a.Get("flag") != true {
		t.Fatalf("merge is not idempotent: %v %v", a.Get("mode"), a.Get("flag"))
	}

	c, _ := spec.New(map[string]any{"mode": "c"})
	if err := a.Merge(c, fixedwidth.MergePolicy{Prefer: fixedwidth.PreferOther, FillMissing: true}); err != nil {
		t.Fatalf("merge err: %v", err)
	}
	if got := a.Get("mode"); got != "C" {
		t.Fatalf("PreferOther must overwrite, got %v", got)
	}
}

func TestOptions_MergeSkipsMissingWhenFillDisabled(t *testing.T) {
	spec := upperSpec()
	a, _ := spec.New(map[string]any{"mode": "a"})
	b, _ := spec.New(map[string]any{"mode": "b", "flag": true})

	if err := a.Merge(b, fixedwidth.MergePolicy{Prefer: fixedwidth.PreferSelf}); err != nil {
		t.Fatalf("merge err: %v", err)
	}
	if _, set := a.Lookup("flag"); set {
		t.Fatalf("flag should not be filled when FillMissing is false")
	}
}
