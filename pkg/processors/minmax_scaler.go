package processors

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ruslano69/esgclean/pkg/core/table"
)

// RoundingMode определяет правило округления до целого
type RoundingMode string

const (
	// RoundHalfEven - банковское округление: 0.5 → 0, 1.5 → 2, 2.5 → 2
	RoundHalfEven RoundingMode = "half_even"
	// RoundHalfUp - округление половины от нуля: 0.5 → 1, 2.5 → 3
	RoundHalfUp RoundingMode = "half_up"
)

// ZeroVariancePolicy определяет поведение при max == min
type ZeroVariancePolicy string

const (
	// ZeroVarianceError - вернуть ErrZeroVariance
	ZeroVarianceError ZeroVariancePolicy = "error"
	// ZeroVarianceConstant - записать fallback во все строки колонки
	ZeroVarianceConstant ZeroVariancePolicy = "constant"
)

// DefaultScale - верхняя граница шкалы
const DefaultScale = 100

// MinMaxScaler приводит числовые колонки к целым значениям в [0, scale]:
//
//	normalized = (value - min) / (max - min) * scale
//
// Каждая колонка нормализуется независимо по своим min и max.
type MinMaxScaler struct {
	name         string
	fields       []string
	scale        float64
	rounding     RoundingMode
	zeroVariance ZeroVariancePolicy
	fallback     int64
}

// ScalerOptions параметры MinMaxScaler
type ScalerOptions struct {
	Scale        float64
	Rounding     RoundingMode
	ZeroVariance ZeroVariancePolicy
	Fallback     int64
}

// NewMinMaxScaler создает нормализатор
func NewMinMaxScaler(fields []string, opts ScalerOptions) (*MinMaxScaler, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("at least one field is required")
	}

	if opts.Scale == 0 {
		opts.Scale = DefaultScale
	}
	if opts.Scale < 0 {
		return nil, fmt.Errorf("scale must be positive")
	}
	if opts.Rounding == "" {
		opts.Rounding = RoundHalfEven
	}
	if opts.ZeroVariance == "" {
		opts.ZeroVariance = ZeroVarianceError
	}

	switch opts.Rounding {
	case RoundHalfEven, RoundHalfUp:
	default:
		return nil, fmt.Errorf("invalid rounding mode '%s'", opts.Rounding)
	}

	switch opts.ZeroVariance {
	case ZeroVarianceError, ZeroVarianceConstant:
	default:
		return nil, fmt.Errorf("invalid zero variance policy '%s'", opts.ZeroVariance)
	}

	if opts.Fallback < 0 || float64(opts.Fallback) > opts.Scale {
		return nil, fmt.Errorf("fallback %d is outside [0, %g]", opts.Fallback, opts.Scale)
	}

	return &MinMaxScaler{
		name:         TypeMinMaxScaler,
		fields:       fields,
		scale:        opts.Scale,
		rounding:     opts.Rounding,
		zeroVariance: opts.ZeroVariance,
		fallback:     opts.Fallback,
	}, nil
}

// Name возвращает имя процессора
func (s *MinMaxScaler) Name() string {
	return s.name
}

// Process реализует интерфейс Processor
func (s *MinMaxScaler) Process(ctx context.Context, t *table.Table) (*table.Table, error) {
	result := t.Clone()

	for _, field := range s.fields {
		if err := s.scaleColumn(result, field); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// scaleColumn нормализует одну колонку на месте (таблица уже склонирована)
func (s *MinMaxScaler) scaleColumn(t *table.Table, field string) error {
	idx, err := t.ColumnIndex(field)
	if err != nil {
		return err
	}
	t.Schema.Fields[idx].Type = table.TypeInteger

	if len(t.Rows) == 0 {
		return nil
	}

	// Разбираем все значения до вычисления min/max
	values := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		cell := row[idx]
		if cell.Null {
			return &ValueError{Field: field, Row: i + 1, Err: ErrNullValue}
		}

		v, err := strconv.ParseFloat(strings.TrimSpace(cell.Value), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return &ValueError{Field: field, Row: i + 1, Value: cell.Value, Err: ErrInvalidNumber}
		}
		values[i] = v
	}

	minV, maxV := values[0], values[0]
	for _, v := range values[1:] {
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}

	if maxV == minV {
		if s.zeroVariance == ZeroVarianceError {
			return fmt.Errorf("field '%s': %w (min = max = %g)", field, ErrZeroVariance, minV)
		}
		for _, row := range t.Rows {
			row[idx] = table.StringCell(strconv.FormatInt(s.fallback, 10))
		}
		return nil
	}

	for i, row := range t.Rows {
		row[idx] = table.StringCell(strconv.FormatInt(s.normalize(values[i], minV, maxV), 10))
	}

	return nil
}

// normalize вычисляет значение в том же порядке операций, что и исходный скрипт:
// сначала деление, затем умножение на scale
func (s *MinMaxScaler) normalize(v, minV, maxV float64) int64 {
	scaled := ((v - minV) / (maxV - minV)) * s.scale
	return int64(s.round(scaled))
}

func (s *MinMaxScaler) round(v float64) float64 {
	if s.rounding == RoundHalfUp {
		return math.Round(v)
	}
	return math.RoundToEven(v)
}

// NewMinMaxScalerFromConfig создает MinMaxScaler из конфигурации
//
//	params:
//	  fields: [total_score, governance_score]
//	  scale: 100
//	  rounding: half_even        # half_even | half_up
//	  on_zero_variance: error    # error | constant
//	  fallback: 0
func NewMinMaxScalerFromConfig(params map[string]any) (*MinMaxScaler, error) {
	fields, err := stringListParam(params, "fields")
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("missing or invalid 'fields' parameter")
	}

	scale, err := floatParam(params, "scale", DefaultScale)
	if err != nil {
		return nil, err
	}
	rounding, err := stringParam(params, "rounding", string(RoundHalfEven))
	if err != nil {
		return nil, err
	}
	policy, err := stringParam(params, "on_zero_variance", string(ZeroVarianceError))
	if err != nil {
		return nil, err
	}
	fallback, err := intParam(params, "fallback", 0)
	if err != nil {
		return nil, err
	}

	return NewMinMaxScaler(fields, ScalerOptions{
		Scale:        scale,
		Rounding:     RoundingMode(rounding),
		ZeroVariance: ZeroVariancePolicy(policy),
		Fallback:     int64(fallback),
	})
}
