package mist

import (
	"testing"

	check "github.com/go-check/check"
)

// Test hooks gocheck into `go test`, used here for table-heavy scenario
// coverage.
func Test(t *testing.T) { check.TestingT(t) }

type EvaluatorSuite struct{}

var _ = check.Suite(&EvaluatorSuite{})

func mustBuildSingle(c *check.C, name, src string) *TemplateGroup {
	g, err := BuildSingle(name, src, DefaultOptions())
	c.Assert(err, check.IsNil)
	return g
}

func mustBuildGroup(c *check.C, mainName string, sources map[string]string) *TemplateGroup {
	g, err := BuildGroup(mainName, sources, DefaultOptions())
	c.Assert(err, check.IsNil)
	return g
}

func setMulti(g *TemplateGroup, name string, values ...string) {
	for _, v := range values {
		g.SetAttribute(name, v)
	}
}

// Scenario 1: positional multi-value.
func (s *EvaluatorSuite) TestPositionalMultiValue(c *check.C) {
	g := mustBuildSingle(c, "M", "ab<$P1$>cd<$P2$><$P3$>ef<$P4$>")
	setMulti(g, "P1", "XX")
	setMulti(g, "P2", "YY", "ZZ", "TT")
	setMulti(g, "P3", "UU", "WW")
	setMulti(g, "P4", "VV", "SS")

	values, err := g.Evaluate()
	c.Assert(err, check.IsNil)
	c.Assert(values, check.DeepEquals, []string{
		"abXXcdYYUUefVV",
		"abXXcdZZWWefSS",
		"abXXcdTTWWefSS",
	})
}

// Scenario 2: join.
func (s *EvaluatorSuite) TestJoin(c *check.C) {
	g := mustBuildGroup(c, "T", map[string]string{
		"T": "<$M: join(=*=)$>",
		"M": "ab<$P1$>cd<$P2$><$P3$>ef<$P4$>",
	})
	setMulti(g, "P1", "XX")
	setMulti(g, "P2", "YY", "ZZ", "TT")
	setMulti(g, "P3", "UU", "WW")
	setMulti(g, "P4", "VV", "SS")

	values, err := g.Evaluate()
	c.Assert(err, check.IsNil)
	c.Assert(values, check.DeepEquals, []string{
		"abXXcdYYUUefVV=*=abXXcdZZWWefSS=*=abXXcdTTWWefSS",
	})
}

// Scenario 3: empty join separator.
func (s *EvaluatorSuite) TestJoinEmptySeparator(c *check.C) {
	g := mustBuildGroup(c, "T", map[string]string{
		"T": "<$M: join()$>",
		"M": "ab<$P1$>cd<$P2$><$P3$>ef<$P4$>",
	})
	setMulti(g, "P1", "XX")
	setMulti(g, "P2", "YY", "ZZ", "TT")
	setMulti(g, "P3", "UU", "WW")
	setMulti(g, "P4", "VV", "SS")

	values, err := g.Evaluate()
	c.Assert(err, check.IsNil)
	c.Assert(values, check.DeepEquals, []string{
		"abXXcdYYUUefVVabXXcdZZWWefSSabXXcdTTWWefSS",
	})
}

// Scenario 5: conditional, no concat.
func (s *EvaluatorSuite) TestConditionalNoConcat(c *check.C) {
	g := mustBuildGroup(c, "T", map[string]string{
		"T": "<$if C$>yes<$else$>no<$endif$>",
	})
	setMulti(g, "C", "1", "", "2")

	values, err := g.Evaluate()
	c.Assert(err, check.IsNil)
	c.Assert(values, check.DeepEquals, []string{"yes", "no", "yes"})
}

// Scenario 6: conditional with concat.
func (s *EvaluatorSuite) TestConditionalConcat(c *check.C) {
	g := mustBuildGroup(c, "T", map[string]string{
		"T": "<$if concat(C)$>Y<$else$>N<$endif$>",
	})
	setMulti(g, "C", "", "", "x")
	values, err := g.Evaluate()
	c.Assert(err, check.IsNil)
	c.Assert(values, check.DeepEquals, []string{"Y"})

	g2 := mustBuildGroup(c, "T", map[string]string{
		"T": "<$if concat(C)$>Y<$else$>N<$endif$>",
	})
	setMulti(g2, "C", "", "")
	values2, err := g2.Evaluate()
	c.Assert(err, check.IsNil)
	c.Assert(values2, check.DeepEquals, []string{"N"})
}

// Scenario 7: cycle tolerance.
func (s *EvaluatorSuite) TestCycleTolerance(c *check.C) {
	g := mustBuildGroup(c, "A", map[string]string{
		"A": "<$B$>",
		"B": "<$A$>",
	})
	values, err := g.Evaluate()
	c.Assert(err, check.IsNil)
	c.Assert(len(values) >= 1, check.Equals, true)
}

// Scenario 8: syntax error.
func (s *EvaluatorSuite) TestSyntaxErrorReportsLine(c *check.C) {
	_, err := BuildSingle("T", "ab<$ end", DefaultOptions())
	c.Assert(err, check.NotNil)
	e, ok := err.(*Error)
	c.Assert(ok, check.Equals, true)
	c.Assert(e.Kind, check.Equals, KindSyntaxError)
	c.Assert(e.Line, check.Equals, 1)
}

// Universal invariant: every evaluated template has at least one value.
func (s *EvaluatorSuite) TestEveryTemplateHasAtLeastOneValue(c *check.C) {
	g := mustBuildSingle(c, "M", "x<$A$>y")
	values, err := g.Evaluate()
	c.Assert(err, check.IsNil)
	c.Assert(len(values) >= 1, check.Equals, true)
	c.Assert(values, check.DeepEquals, []string{"xy"})
}

// clear_values is idempotent and re-evaluation with the same dictionary
// is byte-identical.
func (s *EvaluatorSuite) TestClearValuesIdempotent(c *check.C) {
	g := mustBuildSingle(c, "M", "<$A$>-<$A$>")
	g.SetAttribute("A", "v")
	first, err := g.Evaluate()
	c.Assert(err, check.IsNil)

	g.ClearValues()
	g.ClearValues()
	g.SetAttribute("A", "v")
	second, err := g.Evaluate()
	c.Assert(err, check.IsNil)
	c.Assert(second, check.DeepEquals, first)
}

// Plain placeholder positional pairing: slot i gets target.values[min(i, M-1)].
func (s *EvaluatorSuite) TestPositionalPairingReplicatesLastValue(c *check.C) {
	g := mustBuildSingle(c, "M", "<$A$>-<$B$>")
	setMulti(g, "A", "a1", "a2", "a3")
	setMulti(g, "B", "b1")

	values, err := g.Evaluate()
	c.Assert(err, check.IsNil)
	c.Assert(values, check.DeepEquals, []string{"a1-b1", "a2-b1", "a3-b1"})
}
