package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"log"

	"git.solver4all.com/azaryc2s/pwlt"
)

var supplies pwlt.ArrayIntFlags
var demands pwlt.ArrayIntFlags
var segments pwlt.ArrayIntFlags
var output *string
var count *int
var seed *int64
var plot *bool
var plotSamples *int

func main() {
	flag.Var(&supplies, "s", "List of supply node counts")
	flag.Var(&demands, "d", "List of demand node counts")
	flag.Var(&segments, "k", "List of segment counts per piecewise-linear cost function")
	output = flag.String("outputDir", ".", "Output directory")
	count = flag.Int("count", 1, "Number of instances per combination")
	seed = flag.Int64("seed", 0, "Explicit RNG seed. 0 derives the seed from the instance dimensions")
	plot = flag.Bool("plot", false, "Also export the first pair's cost function as CSV sample points")
	plotSamples = flag.Int("plotSamples", 100, "Number of sample points for the plot export")

	flag.Parse()

	if len(supplies) == 0 || len(demands) == 0 || len(segments) == 0 {
		log.Printf("Need at least one value each for -s, -d and -k\n")
		return
	}

	for _, n := range supplies {
		for _, m := range demands {
			for _, k := range segments {
				for l := 0; l < *count; l++ {
					instSeed := pwlt.RepeatSeed(n, m, k, *seed, l)
					inst, err := pwlt.GenerateInstance(n, m, k, instSeed)
					if err != nil {
						log.Fatal(err)
					}
					if *count > 1 {
						inst.Name = fmt.Sprintf("%s_%d", inst.Name, l)
					}

					jsonInst, err := json.MarshalIndent(inst, "", "\t")
					if err != nil {
						log.Fatal(err)
					}
					jsonInst = []byte(pwlt.SanitizeJsonArrayLineBreaks(string(jsonInst)))
					fileName := fmt.Sprintf("%s/%s.json", *output, inst.Name)
					err = ioutil.WriteFile(fileName, jsonInst, 0644)
					if err != nil {
						log.Fatal(err)
					}
					log.Printf("Wrote %s\n", fileName)

					if *plot {
						writePlot(inst, *output, *plotSamples)
					}
				}
			}
		}
	}
}

func writePlot(inst *pwlt.Instance, dir string, samples int) {
	points := pwlt.SamplePWL(inst.Breakpoints[0][0], inst.Values[0][0], samples)
	csv := "x,f\n"
	for _, p := range points {
		csv += fmt.Sprintf("%g,%g\n", p[0], p[1])
	}
	fileName := fmt.Sprintf("%s/%s_pwl_0_0.csv", dir, inst.Name)
	err := ioutil.WriteFile(fileName, []byte(csv), 0644)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote %s\n", fileName)
}
