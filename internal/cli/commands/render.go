package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"

	"github.com/mahdi-shafiei/probnum/internal/problem"
)

type renderer struct {
	w         io.Writer
	precision int
}

func (r *renderer) format(v float64) string {
	return strconv.FormatFloat(v, 'g', r.precision, 64)
}

func (r *renderer) yaml(res *problem.Result) error {
	enc := yaml.NewEncoder(r.w)
	enc.SetIndent(2)
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}

// json fails for NaN and infinite moments, which JSON cannot represent.
func (r *renderer) json(res *problem.Result) error {
	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	_, err = fmt.Fprintln(r.w, string(out))
	return err
}

func (r *renderer) table(res *problem.Result, showCov bool) error {
	rv := res.RandomVariable
	if rv == nil {
		return errors.New("result has no random variable")
	}
	mean, err := rv.Mean()
	if err != nil {
		return err
	}
	variance, err := rv.Var()
	if err != nil {
		return err
	}
	std, err := rv.Std()
	if err != nil {
		return err
	}

	summary := table.NewWriter()
	summary.SetOutputMirror(r.w)
	summary.SetStyle(table.StyleLight)
	summary.AppendRows([]table.Row{
		{"Shape", shapeString(res.Shape)},
		{"DType", res.DType},
		{"Distribution", res.Distribution},
		{"Steps", strings.Join(res.Steps, " → ")},
	})
	summary.Render()

	moments := table.NewWriter()
	moments.SetOutputMirror(r.w)
	moments.SetStyle(table.StyleLight)
	moments.AppendHeader(table.Row{"Index", "Mean", "Var", "Std"})
	moments.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	for i, m := range mean.Data() {
		moments.AppendRow(table.Row{
			indexString(res.Shape, i),
			r.format(m),
			r.format(variance.Data()[i]),
			r.format(std.Data()[i]),
		})
	}
	moments.Render()

	if !showCov {
		return nil
	}
	cov := table.NewWriter()
	cov.SetOutputMirror(r.w)
	cov.SetStyle(table.StyleLight)
	cov.SetTitle("Covariance")
	for _, row := range res.Cov {
		cells := make(table.Row, len(row))
		for j, v := range row {
			cells[j] = r.format(v)
		}
		cov.AppendRow(cells)
	}
	cov.Render()
	return nil
}

func shapeString(shape []int) string {
	parts := make([]string, len(shape))
	for i, d := range shape {
		parts[i] = strconv.Itoa(d)
	}
	if len(parts) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// indexString formats the multi-index of flat position i in row-major order.
func indexString(shape []int, i int) string {
	if len(shape) == 0 {
		return "()"
	}
	idx := make([]int, len(shape))
	for d := len(shape) - 1; d >= 0; d-- {
		idx[d] = i % shape[d]
		i /= shape[d]
	}
	return shapeString(idx)
}
