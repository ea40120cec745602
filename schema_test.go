package fixedwidth_test

import (
	"testing"

	fixedwidth "github.com/reoring/fixedwidth"
	"github.com/reoring/fixedwidth/codec"
)

func newSchema(t *testing.T, name string) *fixedwidth.Schema {
	t.Helper()
	s, err := fixedwidth.New(name, nil, nil)
	if err != nil {
		t.Fatalf("new schema: %v", err)
	}
	return s
}

func TestSchema_DuplicateField(t *testing.T) {
	s := newSchema(t, "row")
	if _, err := s.AddColumn(codec.MustText("id", 3, nil), ""); err != nil {
		t.Fatalf("first add: %v", err)
	}
	_, err := s.AddColumn(codec.MustText("id", 5, nil), "")
	if !fixedwidth.HasCode(err, fixedwidth.CodeDuplicateName) {
		t.Fatalf("expected duplicate_name, got %v", err)
	}
}

func TestSchema_ReservedPrefix(t *testing.T) {
	s := newSchema(t, "row")
	for _, name := range []string{"spacer_7", "repeat_x"} {
		_, err := s.AddColumn(codec.MustText(name, 3, nil), "")
		if !fixedwidth.HasCode(err, fixedwidth.CodeReservedName) {
			t.Fatalf("expected reserved_name for %q, got %v", name, err)
		}
	}
}

func TestSchema_MalformedIdentifier(t *testing.T) {
	s := newSchema(t, "row")
	_, err := s.AddColumn(codec.MustText("9bad", 3, nil), "")
	if !fixedwidth.HasCode(err, fixedwidth.CodeSchema) {
		t.Fatalf("expected schema_error, got %v", err)
	}
	if _, err := fixedwidth.New("not ok", nil, nil); !fixedwidth.HasCode(err, fixedwidth.CodeSchema) {
		t.Fatalf("expected schema_error for schema name, got %v", err)
	}
}

func TestSchema_NestedConflictsWithReferenceTarget(t *testing.T) {
	s := newSchema(t, "row")
	if err := s.AddReference("inner", "payload", nil); err != nil {
		t.Fatalf("add reference: %v", err)
	}
	_, err := s.AddSchema("inner", nil)
	if !fixedwidth.HasCode(err, fixedwidth.CodeDuplicateName) {
		t.Fatalf("expected duplicate_name, got %v", err)
	}
}

func TestSchema_ReferenceStoreNameCollision(t *testing.T) {
	s := newSchema(t, "row")
	if _, err := s.AddColumn(codec.MustText("payload", 3, nil), ""); err != nil {
		t.Fatalf("add column: %v", err)
	}
	err := s.AddReference("inner", "payload", nil)
	if !fixedwidth.HasCode(err, fixedwidth.CodeDuplicateName) {
		t.Fatalf("expected duplicate_name, got %v", err)
	}
}

func TestSchema_FillerAutoNames(t *testing.T) {
	s := newSchema(t, "row")
	if _, err := s.AddFiller(2, ' '); err != nil {
		t.Fatalf("first filler: %v", err)
	}
	if _, err := s.AddFiller(3, '0'); err != nil {
		t.Fatalf("second filler: %v", err)
	}
	fields := s.Fields()
	if len(fields) != 2 || fields[0] == fields[1] {
		t.Fatalf("fillers must get distinct auto names, got %v", fields)
	}
	n, err := s.Length()
	if err != nil || n != 5 {
		t.Fatalf("expected length 5, got %d err=%v", n, err)
	}
}

func TestSchema_SealedRejectsMutation(t *testing.T) {
	s := newSchema(t, "row")
	if _, err := s.AddColumn(codec.MustText("id", 3, nil), ""); err != nil {
		t.Fatalf("add column: %v", err)
	}
	s.Seal()
	_, err := s.AddColumn(codec.MustText("more", 3, nil), "")
	if !fixedwidth.HasCode(err, fixedwidth.CodeSchema) {
		t.Fatalf("expected schema_error after seal, got %v", err)
	}
	if err := s.AddReference("x", "", nil); !fixedwidth.HasCode(err, fixedwidth.CodeSchema) {
		t.Fatalf("expected schema_error after seal, got %v", err)
	}
}

func TestSchema_LengthCacheInvalidatedByAppend(t *testing.T) {
	s := newSchema(t, "row")
	if _, err := s.AddColumn(codec.MustText("id", 3, nil), ""); err != nil {
		t.Fatalf("add column: %v", err)
	}
	if n, err := s.Length(); err != nil || n != 3 {
		t.Fatalf("expected 3, got %d err=%v", n, err)
	}
	if _, err := s.AddColumn(codec.MustText("code", 4, nil), ""); err != nil {
		t.Fatalf("add column: %v", err)
	}
	if n, err := s.Length(); err != nil || n != 7 {
		t.Fatalf("cache not invalidated: got %d err=%v", n, err)
	}
}

func TestSchema_ColumnGroups(t *testing.T) {
	s := newSchema(t, "row")
	if _, err := s.AddColumn(codec.MustText("zip", 5, nil), "address"); err != nil {
		t.Fatalf("add column: %v", err)
	}
	cols := s.Columns()
	if len(cols) != 1 || cols[0].Group() != "address" {
		t.Fatalf("group not carried, got %+v", cols)
	}
}
