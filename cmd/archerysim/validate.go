package main

import (
	"context"
	"fmt"
	"os"

	"github.com/lox/archerysim/internal/configstore"
	"github.com/lox/archerysim/internal/numstream"
	"github.com/lox/archerysim/internal/report"
	"github.com/lox/archerysim/internal/uniformity"
)

// ValidateCmd reports the uniformity tests without touching the cursor.
type ValidateCmd struct {
	Configs string `help:"HCL file of LCG configurations" default:"lcg.hcl" type:"path" env:"ARCHERYSIM_CONFIGS"`
	Numbers string `help:"Validate a numbers file instead of the configurations" type:"existingfile"`
}

type validation struct {
	Name   string            `json:"name"`
	Report uniformity.Report `json:"report"`
}

func (c *ValidateCmd) Run(g *Globals) error {
	logger := g.logger()
	ctx, cancel := signalContext(logger)
	defer cancel()

	results, err := c.collect(ctx)
	if err != nil {
		return err
	}

	if g.JSON {
		return report.WriteJSON(os.Stdout, results)
	}
	printer := g.printer()
	accepted := 0
	for _, v := range results {
		printer.Validation(v.Name, v.Report)
		if v.Report.Passed() {
			accepted++
		}
	}
	fmt.Printf("\n%d of %d accepted\n", accepted, len(results))
	return nil
}

func (c *ValidateCmd) collect(ctx context.Context) ([]validation, error) {
	if c.Numbers != "" {
		stream, err := numstream.LoadFile(c.Numbers)
		if err != nil {
			return nil, err
		}
		return []validation{{Name: c.Numbers, Report: uniformity.Validate(stream.Values())}}, nil
	}

	configs, err := configstore.LoadConfigurations(c.Configs)
	if err != nil {
		return nil, err
	}
	results := make([]validation, 0, len(configs))
	for _, conf := range configs {
		nums, err := conf.Generate(ctx)
		if err != nil {
			return nil, err
		}
		results = append(results, validation{Name: conf.Name, Report: uniformity.Validate(nums)})
	}
	return results, nil
}
