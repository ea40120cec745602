package fixedwidth

// Package fixedwidth compiles declarative fixed-width record layouts into two
// symmetric operations: parsing a raw line into a structured Record and
// formatting a Record back into a line of the exact expected width.
//
// - Schemas are ordered collections of columns, owned nested schemas, and
//   named references to schemas declared in sibling or ancestor scope.
// - References bind lazily: forward declarations are fine, resolution walks
//   the parent chain (or a root Catalog) on first use and memoizes the target.
// - Options inherit downward on resolution: the deepest explicit setting wins,
//   ancestors only fill gaps, transitively through reference chains.
// - A stable error model via Issues (field path, code, character offset).
//
// Design policy:
// - Keep only public APIs in the root package; put detailed implementations under internal/.
// - Place the builder DSL under dsl/, concrete cell codecs under codec/, and
//   declarative layout documents under layout/.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	reg := fixedwidth.NewRegistry()
//	row := dsl.New("row", dsl.InCatalog(reg)).
//		Column("id", 3).
//		Filler(1).
//		Column("code", 4).
//		MustBuild()
//	reg.Add(row)
//
//	rec, err := row.Parse("A1  DEAD") // Record{"id": "A1 ", "code": "DEAD"}
//	line, err := row.Format(rec)      // "A1  DEAD"
//
// Construction and resolution are single-threaded setup-time activities; call
// Validate once after setup, then Parse/Format/Match are read-only and safe
// from multiple goroutines against the same schema tree.
