// Package tabula is an in-memory table of text cells with relational,
// statistical and reshaping operators.
//
// Implementation lives in internal packages:
//   - internal/array: cell types, inference, schema, bitmaps
//   - internal/expr: row predicates and the query parser
//   - internal/exec: the table and its operators
//   - internal/io: CSV, JSON and HTML encoders
//   - internal/print: text previews
package tabula

import (
	"go.uber.org/zap"

	"tabula/internal/array"
	"tabula/internal/errs"
	"tabula/internal/exec"
	"tabula/internal/expr"
	"tabula/internal/logger"
	"tabula/internal/print"
)

type Table = exec.Table
type Type = array.Type

const (
	Int    = array.Int
	Float  = array.Float
	String = array.String
)

// Cell texts produced by comparisons and string predicates.
const (
	True  = exec.True
	False = exec.False
)

func New(columns []string, rows [][]string) (*Table, error) { return exec.New(columns, rows) }

func NewTyped(columns []string, types []Type, rows [][]string) (*Table, error) {
	return exec.NewTyped(columns, types, rows)
}

func Empty() *Table { return exec.Empty() }

func Concat(tables []*Table, axis int, ignoreIndex bool) (*Table, error) {
	return exec.Concat(tables, axis, ignoreIndex)
}

func ParseType(s string) (Type, error) { return array.ParseType(s) }

type (
	Expr   = expr.Expr
	ColRef = expr.ColRef
)

func Col(name string) ColRef               { return expr.Col(name) }
func And(a, b Expr) Expr                   { return expr.And(a, b) }
func Or(a, b Expr) Expr                    { return expr.Or(a, b) }
func Not(e Expr) Expr                      { return expr.Not(e) }
func ParseExpr(query string) (Expr, error) { return expr.Parse(query) }

type (
	GroupBy    = exec.GroupBy
	Group      = exec.Group
	AggFunc    = exec.AggFunc
	AggSpec    = exec.AggSpec
	JoinHow    = exec.JoinHow
	RankMethod = exec.RankMethod
	Imputer    = exec.Imputer
	Strategy   = exec.Strategy
)

const (
	AggCount  = exec.AggCount
	AggSum    = exec.AggSum
	AggMean   = exec.AggMean
	AggMin    = exec.AggMin
	AggMax    = exec.AggMax
	AggStd    = exec.AggStd
	AggMedian = exec.AggMedian

	JoinInner = exec.JoinInner
	JoinLeft  = exec.JoinLeft

	RankFirst   = exec.RankFirst
	RankAverage = exec.RankAverage

	StrategyMean         = exec.StrategyMean
	StrategyMedian       = exec.StrategyMedian
	StrategyMode         = exec.StrategyMode
	StrategyConstant     = exec.StrategyConstant
	StrategyForwardFill  = exec.StrategyForwardFill
	StrategyBackwardFill = exec.StrategyBackwardFill
	StrategyLinear       = exec.StrategyLinear
)

func ParseAggFunc(s string) (AggFunc, error)       { return exec.ParseAggFunc(s) }
func ParseRankMethod(s string) (RankMethod, error) { return exec.ParseRankMethod(s) }
func ParseStrategy(s string) (Strategy, error)     { return exec.ParseStrategy(s) }

// NewImputer returns the imputer for s. value is used only by
// StrategyConstant.
func NewImputer(s Strategy, value string) (Imputer, error) { return exec.NewImputer(s, value) }

type (
	Error     = errs.Error
	ErrorKind = errs.Kind
)

const (
	SchemaError      = errs.KindSchema
	IndexError       = errs.KindIndex
	TypeError        = errs.KindType
	StatisticalError = errs.KindStatistical
	FileAccessError  = errs.KindFileAccess
	ArgumentError    = errs.KindArgument
)

var (
	ErrColumnNotFound = errs.ErrColumnNotFound
	ErrSizeMismatch   = errs.ErrSizeMismatch
	ErrShapeMismatch  = errs.ErrShapeMismatch
	ErrNoValidValues  = errs.ErrNoValidValues
	ErrOutOfRange     = errs.ErrOutOfRange
)

// IsKind reports whether err is a table error of the given kind.
func IsKind(err error, kind ErrorKind) bool { return errs.Is(err, kind) }

// SetLogger routes debug output of table operations to l. A nil logger
// discards it, which is the default.
func SetLogger(l *zap.Logger) { logger.Set(l) }

type PreviewOptions = print.TableOptions

func DefaultPreviewOptions() PreviewOptions { return print.DefaultTableOptions() }

// Preview renders the first and last rows of t as a bordered text grid.
func Preview(t *Table, opts PreviewOptions) string { return print.Table(t, opts) }

// Info renders per-column non-null counts and types.
func Info(t *Table) string { return print.Info(t) }
