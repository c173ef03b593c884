package main

import (
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Tarynjenifer/smartgrow-ai/internal/suggest"
)

func newSuggestCmd(a *app) *cobra.Command {
	p := suggest.DefaultParameters()
	var soil, experience string
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Recommend crops for the given growing conditions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p.SoilType = suggest.SoilType(strings.ToLower(strings.TrimSpace(soil)))
			p.Experience = suggest.Experience(strings.ToLower(strings.TrimSpace(experience)))
			if err := p.Validate(); err != nil {
				return err
			}
			out := suggest.NewGenerator(a.content.Suggestions).Generate(p)
			return a.render(cmd.OutOrStdout(), out, func(tw *tabwriter.Writer) {
				row(tw, "CROP", "MATCH", "GROWTH", "DIFFICULTY", "YIELD", "WATER", "LIGHT")
				for _, s := range out {
					row(tw, s.Name, strconv.Itoa(s.Confidence)+"%", s.GrowthTime, s.Difficulty, s.Yield, s.WaterNeeds, s.LightNeeds)
				}
			})
		},
	}
	cmd.Flags().StringVar(&soil, "soil", "", "hydroponic, coco-coir, perlite, rockwool or organic")
	cmd.Flags().StringVar(&experience, "experience", "", "beginner, intermediate or advanced")
	cmd.Flags().Float64Var(&p.Temperature, "temperature", p.Temperature, "temperature in °C")
	cmd.Flags().Float64Var(&p.Humidity, "humidity", p.Humidity, "relative humidity in %")
	cmd.Flags().Float64Var(&p.PH, "ph", p.PH, "nutrient solution pH")
	cmd.Flags().Float64Var(&p.Area, "area", p.Area, "growing area in sq ft")
	return cmd
}
