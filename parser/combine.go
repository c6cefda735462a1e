package parser

import (
	"github.com/lefeck/nginxconf/config"
	"github.com/lefeck/nginxconf/errors"
)

// combine flattens old into a single logical file by walking the first
// file's tree and, wherever a resolved "include" node appears, splicing
// in the top-level directives of every file it references (recursively
// expanding their own includes in turn). Every surviving node is
// tagged with the file it came from.
func combine(old *config.Payload) (*config.Payload, error) {
	if len(old.Config) < 1 {
		return old, nil
	}

	combined := config.NewFileReport(old.Config[0].File)
	combined.Status = config.StatusOK
	for _, report := range old.Config {
		combined.Errors = append(combined.Errors, report.Errors...)
		if report.Status == config.StatusFailed {
			combined.Status = config.StatusFailed
		}
	}

	inlined, err := inlineIncludes(old, combined.File, old.Config[0].Parsed)
	if err != nil {
		return nil, err
	}
	combined.Parsed = inlined

	return &config.Payload{
		Status: old.Status,
		Errors: old.Errors,
		Config: []config.FileReport{*combined},
	}, nil
}

func inlineIncludes(old *config.Payload, fromFile string, block []*config.Directive) ([]*config.Directive, error) {
	var out []*config.Directive
	for _, d := range block {
		node := d.Clone()
		node.File = fromFile

		if node.IsBlock() {
			inner, err := inlineIncludes(old, fromFile, d.Block)
			if err != nil {
				return nil, err
			}
			node.Block = inner
		}

		if !node.IsInclude() {
			out = append(out, node)
			continue
		}

		for _, idx := range d.Includes {
			if idx >= len(old.Config) {
				return nil, errors.New(errors.IO, fromFile, d.Line, "include config with index: %d", idx)
			}
			ref := old.Config[idx]
			inner, err := inlineIncludes(old, ref.File, ref.Parsed)
			if err != nil {
				return nil, err
			}
			out = append(out, inner...)
		}
	}
	return out, nil
}
