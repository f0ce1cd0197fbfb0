package mist

import (
	"os"
	"testing"

	"github.com/kr/pretty"
	"github.com/stretchr/testify/require"
	yaml "gopkg.in/yaml.v2"
)

type scenario struct {
	Name       string              `yaml:"name"`
	Main       string              `yaml:"main"`
	Templates  map[string]string   `yaml:"templates"`
	Attributes map[string][]string `yaml:"attributes"`
	Expect     []string            `yaml:"expect"`
}

// TestScenarios loads testdata/scenarios.yaml and replays each row
// end-to-end through BuildGroup/SetAttribute/Evaluate.
func TestScenarios(t *testing.T) {
	raw, err := os.ReadFile("testdata/scenarios.yaml")
	require.NoError(t, err)

	var scenarios []scenario
	require.NoError(t, yaml.Unmarshal(raw, &scenarios))
	require.NotEmpty(t, scenarios)

	for _, sc := range scenarios {
		sc := sc
		t.Run(sc.Name, func(t *testing.T) {
			g, err := BuildGroup(sc.Main, sc.Templates, DefaultOptions())
			require.NoError(t, err)

			for name, values := range sc.Attributes {
				for _, v := range values {
					g.SetAttribute(name, v)
				}
			}

			got, err := g.Evaluate()
			require.NoError(t, err)
			if diff := pretty.Diff(got, sc.Expect); len(diff) > 0 {
				t.Fatalf("scenario %q mismatch:\n%s", sc.Name, diff)
			}
		})
	}
}
