package chart

import (
	"bytes"
	"encoding/base64"
	"fmt"

	gochart "github.com/wcharczuk/go-chart/v2"
)

// Slice is one category's share of the allocation donut
type Slice struct {
	Label           string
	Allocated       float64
	Spent           float64
	SpentPercentage float64
}

// RenderDonutPNG renders the budget allocation donut and returns it as
// a base64-encoded PNG. Each wedge is sized by allocation and labeled
// with the spending progress against it.
func RenderDonutPNG(slices []Slice) (string, error) {
	values := make([]gochart.Value, 0, len(slices))
	for _, s := range slices {
		values = append(values, gochart.Value{
			Value: s.Allocated,
			Label: fmt.Sprintf("%s %.2f/%.2f (%.1f%%)", s.Label, s.Spent, s.Allocated, s.SpentPercentage),
		})
	}

	donut := gochart.DonutChart{
		Width:  800,
		Height: 600,
		Values: values,
	}

	var buf bytes.Buffer
	if err := donut.Render(gochart.PNG, &buf); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
