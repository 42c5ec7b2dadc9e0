package coverage

import (
	"encoding/json"
)

// SourceFile is the coverage data of one source file for a single job.
type SourceFile struct {
	// Name is the canonical path of the file.
	Name string
	// SourceDigest is the MD5 digest of the full file text.
	SourceDigest string
	// Source is the file text. It may be empty.
	Source string
	// Coverage holds one slot per line of Source.
	Coverage []Hits
	// Branches is a flat list of (line, block, branch, taken) tuples.
	Branches []int
}

// NewSourceFile creates a source file.
func NewSourceFile(name, digest, source string, coverage []Hits, branches []int) *SourceFile {
	return &SourceFile{
		Name:         name,
		SourceDigest: digest,
		Source:       source,
		Coverage:     coverage,
		Branches:     branches,
	}
}

// Branch returns the i-th branch tuple.
func (f *SourceFile) Branch(i int) (line, block, branch, taken int) {
	b := f.Branches[i*4 : i*4+4]
	return b[0], b[1], b[2], b[3]
}

// BranchCount returns the number of branch tuples.
func (f *SourceFile) BranchCount() int {
	return len(f.Branches) / 4
}

type sourceFileJSON struct {
	Name         string `json:"name"`
	SourceDigest string `json:"source_digest"`
	Coverage     []Hits `json:"coverage"`
	Branches     []int  `json:"branches,omitempty"`
	Source       string `json:"source,omitempty"`
}

// MarshalJSON encodes the file in the shape expected by the Coveralls API.
// Empty branches and source are omitted.
func (f *SourceFile) MarshalJSON() ([]byte, error) {
	cov := f.Coverage
	if cov == nil {
		cov = []Hits{}
	}
	return json.Marshal(sourceFileJSON{
		Name:         f.Name,
		SourceDigest: f.SourceDigest,
		Coverage:     cov,
		Branches:     f.Branches,
		Source:       f.Source,
	})
}

// UnmarshalJSON decodes a file previously encoded with MarshalJSON.
func (f *SourceFile) UnmarshalJSON(data []byte) error {
	var raw sourceFileJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*f = SourceFile{
		Name:         raw.Name,
		SourceDigest: raw.SourceDigest,
		Source:       raw.Source,
		Coverage:     raw.Coverage,
		Branches:     raw.Branches,
	}
	if f.Coverage == nil {
		f.Coverage = []Hits{}
	}
	return nil
}
