package exec

import (
	"sort"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"tabula/internal/array"
	"tabula/internal/errs"
	"tabula/internal/logger"
)

// Imputer fills the null cells of one column in place. It never touches
// any other column.
type Imputer interface {
	Impute(t *Table, col string) error
}

// Strategy tags the fixed set of imputers.
type Strategy uint8

const (
	StrategyMean Strategy = iota
	StrategyMedian
	StrategyMode
	StrategyConstant
	StrategyForwardFill
	StrategyBackwardFill
	StrategyLinear
)

func (s Strategy) String() string {
	switch s {
	case StrategyMean:
		return "mean"
	case StrategyMedian:
		return "median"
	case StrategyMode:
		return "mode"
	case StrategyConstant:
		return "constant"
	case StrategyForwardFill:
		return "ffill"
	case StrategyBackwardFill:
		return "bfill"
	case StrategyLinear:
		return "linear"
	default:
		return "invalid"
	}
}

func ParseStrategy(s string) (Strategy, error) {
	for st := StrategyMean; st <= StrategyLinear; st++ {
		if st.String() == s {
			return st, nil
		}
	}
	return 0, errs.Newf(errs.KindArgument, "impute", "unknown strategy %q", s)
}

// NewImputer returns the imputer for s. value is used by StrategyConstant only.
func NewImputer(s Strategy, value string) (Imputer, error) {
	switch s {
	case StrategyMean:
		return MeanImputer{}, nil
	case StrategyMedian:
		return MedianImputer{}, nil
	case StrategyMode:
		return ModeImputer{}, nil
	case StrategyConstant:
		return ConstantImputer{Value: value}, nil
	case StrategyForwardFill:
		return ForwardFillImputer{}, nil
	case StrategyBackwardFill:
		return BackwardFillImputer{}, nil
	case StrategyLinear:
		return LinearImputer{}, nil
	default:
		return nil, errs.Newf(errs.KindArgument, "impute", "unknown strategy %d", s)
	}
}

func logFilled(s Strategy, col string, filled int) {
	logger.Debug("imputed column",
		zap.String("strategy", s.String()),
		zap.String("column", col),
		zap.Int("filled", filled))
}

// numericStat fills nulls with a statistic of the valid values. A column
// without valid values is left unchanged.
func numericStat(s Strategy, t *Table, col string, f func([]float64) float64) error {
	op := "impute_" + s.String()
	c, err := t.lookup(op, col)
	if err != nil {
		return err
	}
	if t.types[c] == array.String {
		return errs.NumericRequired(op, col)
	}
	x := t.columnFloats(c)
	if len(x) == 0 {
		logFilled(s, col, 0)
		return nil
	}
	v := array.FormatFloat(f(x))
	logFilled(s, col, t.fill(c, func(int) string { return v }))
	return nil
}

type MeanImputer struct{}

func (MeanImputer) Impute(t *Table, col string) error {
	return numericStat(StrategyMean, t, col, func(x []float64) float64 { return stat.Mean(x, nil) })
}

type MedianImputer struct{}

func (MedianImputer) Impute(t *Table, col string) error {
	return numericStat(StrategyMedian, t, col, func(x []float64) float64 {
		sort.Float64s(x)
		return quantileSorted(x, 0.5)
	})
}

// ModeImputer works on any column type.
type ModeImputer struct{}

func (ModeImputer) Impute(t *Table, col string) error {
	c, err := t.lookup("impute_mode", col)
	if err != nil {
		return err
	}
	mode, err := t.Mode(col)
	if err != nil {
		logFilled(StrategyMode, col, 0)
		return nil
	}
	logFilled(StrategyMode, col, t.fill(c, func(int) string { return mode }))
	return nil
}

type ConstantImputer struct {
	Value string
}

func (m ConstantImputer) Impute(t *Table, col string) error {
	c, err := t.lookup("impute_constant", col)
	if err != nil {
		return err
	}
	logFilled(StrategyConstant, col, t.fill(c, func(int) string { return m.Value }))
	return nil
}

type ForwardFillImputer struct{}

func (ForwardFillImputer) Impute(t *Table, col string) error {
	c, err := t.lookup("impute_ffill", col)
	if err != nil {
		return err
	}
	logFilled(StrategyForwardFill, col, t.forwardFill(c))
	return nil
}

type BackwardFillImputer struct{}

func (BackwardFillImputer) Impute(t *Table, col string) error {
	c, err := t.lookup("impute_bfill", col)
	if err != nil {
		return err
	}
	logFilled(StrategyBackwardFill, col, t.backwardFill(c))
	return nil
}

type LinearImputer struct{}

func (LinearImputer) Impute(t *Table, col string) error {
	c, err := t.lookup("impute_linear", col)
	if err != nil {
		return err
	}
	if t.types[c] == array.String {
		return errs.NumericRequired("impute_linear", col)
	}
	logFilled(StrategyLinear, col, t.interpolateLinear(c))
	return nil
}
