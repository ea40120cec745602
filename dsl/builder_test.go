package dsl_test

import (
	"strings"
	"testing"

	fixedwidth "github.com/reoring/fixedwidth"
	"github.com/reoring/fixedwidth/dsl"
)

func TestBuilder_ChainBuildsAllFieldKinds(t *testing.T) {
	s := dsl.New("record").
		Column("name", 8, dsl.Strip()).
		Integer("count", 4).
		Decimal("amount", 9, 2, dsl.Pad('0')).
		Date("day", 8, "20060102").
		Filler(2).
		MustBuild()
	want := []string{"name", "count", "amount", "day", "spacer_1"}
	got := s.Fields()
	if len(got) != len(want) {
		t.Fatalf("fields: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("field %d: got %q, want %q", i, got[i], want[i])
		}
	}
	if n, err := s.Length(); err != nil || n != 31 {
		t.Fatalf("length: %d err=%v", n, err)
	}
}

func TestBuilder_FirstErrorSticks(t *testing.T) {
	_, err := dsl.New("record").
		Column("9bad", 3).
		Column("fine", 3).
		Build()
	if !fixedwidth.HasCode(err, fixedwidth.CodeSchema) {
		t.Fatalf("expected schema_error, got %v", err)
	}
	iss, _ := fixedwidth.AsIssues(err)
	if len(iss) != 1 {
		t.Fatalf("later calls must not pile on more issues: %v", iss)
	}
}

func TestBuilder_MustBuildPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("MustBuild should panic on a broken chain")
		}
	}()
	dsl.New("record").Column("", 3).MustBuild()
}

func TestBuilder_SetupReentryGuard(t *testing.T) {
	var outer *dsl.Builder
	outer = dsl.New("record")
	_, err := outer.
		Schema("inner", func(b *dsl.Builder) {
			outer.Column("smuggled", 2)
			b.Column("ok", 2)
		}).
		Build()
	if !fixedwidth.HasCode(err, fixedwidth.CodeSchema) {
		t.Fatalf("expected schema_error, got %v", err)
	}
	iss, _ := fixedwidth.AsIssues(err)
	if len(iss) == 0 || !strings.Contains(iss[0].Hint, "re-entered") {
		t.Fatalf("expected re-entry hint, got %+v", iss)
	}
}

func TestBuilder_NestedErrorSurfaces(t *testing.T) {
	_, err := dsl.New("record").
		Schema("inner", func(b *dsl.Builder) {
			b.Column("dup", 2).Column("dup", 2)
		}).
		Build()
	if !fixedwidth.HasCode(err, fixedwidth.CodeDuplicateName) {
		t.Fatalf("expected duplicate_name from the nested builder, got %v", err)
	}
}

func TestBuilder_GroupMetadata(t *testing.T) {
	s := dsl.New("record").
		Column("zip", 5, dsl.Group("address")).
		Column("city", 10, dsl.Group("address")).
		Column("other", 2).
		MustBuild()
	groups := map[string]string{}
	for _, c := range s.Columns() {
		groups[c.Name()] = c.Group()
	}
	if groups["zip"] != "address" || groups["city"] != "address" || groups["other"] != "" {
		t.Fatalf("group labels wrong: %v", groups)
	}
}

func TestDefine_RegistersAndCrossReferences(t *testing.T) {
	reg := fixedwidth.NewRegistry()
	if _, err := dsl.Define(reg, "detail", func(b *dsl.Builder) {
		b.Column("sku", 6).Integer("qty", 3)
	}); err != nil {
		t.Fatalf("define detail: %v", err)
	}
	order, err := dsl.Define(reg, "order", func(b *dsl.Builder) {
		b.Column("id", 4).Ref("detail")
	})
	if err != nil {
		t.Fatalf("define order: %v", err)
	}

	if got := reg.Names(); len(got) != 2 {
		t.Fatalf("registry should hold both schemas, got %v", got)
	}
	if err := order.Validate(); err != nil {
		t.Fatalf("cross-reference should resolve: %v", err)
	}
	if n, _ := order.Length(); n != 13 {
		t.Fatalf("expected length 13, got %d", n)
	}
}

func TestDefine_BuildErrorNotRegistered(t *testing.T) {
	reg := fixedwidth.NewRegistry()
	if _, err := dsl.Define(reg, "bad", func(b *dsl.Builder) {
		b.Column("x", 2).Column("x", 2)
	}); err == nil {
		t.Fatalf("expected build error")
	}
	if got := reg.Names(); len(got) != 0 {
		t.Fatalf("failed schema must not be registered, got %v", got)
	}
}
