package domain

// Region is a node in the region hierarchy. Top-level regions have no parent.
type Region struct {
	Slug       string
	Name       string
	ParentSlug *string
}

// Port is a shipping port identified by a 5-character UN/LOCODE style code,
// belonging to exactly one region.
type Port struct {
	Code       string
	Name       string
	ParentSlug string
}
