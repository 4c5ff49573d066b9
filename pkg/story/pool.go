package story

// WeightPolicy selects how pool members are weighted during random selection.
type WeightPolicy string

const (
	WeightUniform  WeightPolicy = "uniform"
	WeightWeighted WeightPolicy = "weighted"
)

// Pool groups side-content scenes for weighted/random selection. The grouping
// is declarative: no engine component consumes it to alter flow beyond the
// legacy weighted-edge selection in the simulator.
type Pool struct {
	ID           string       `json:"id" yaml:"id"`
	Name         string       `json:"name" yaml:"name"`
	MemberIDs    []string     `json:"memberIds" yaml:"memberIds"`
	Cooldown     int          `json:"cooldown" yaml:"cooldown"`
	WeightPolicy WeightPolicy `json:"weightPolicy" yaml:"weightPolicy"`
}
