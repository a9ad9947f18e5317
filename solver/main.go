package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"strings"

	"git.solver4all.com/azaryc2s/pwlt"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/mem"
)

var (
	pInst pwlt.Instance

	formulations pwlt.ArrayStringFlags
	inputF       *string
	outputF      *string
	solverName   *string
	timeLimit    *float64
	writeLP      *bool
	verbose      *bool
	logLvl       *int
)

func main() {
	flag.Var(&formulations, "form", "List of formulations to benchmark. Default: all. Possible: {LP,CC,MC,Incremental,Logarithmic,DisaggLogarithmic,ZigZag,ZigZagInteger}")
	solverName = flag.String("solver", pwlt.SOLVER_HIGHS, "Solver backend. Possible: {GUROBI,HIGHS}")
	inputF = flag.String("input", "input.json", "Path to the input instance")
	outputF = flag.String("output", "", "Path to the output file. By default the input file will be overwritten adding the runs")
	timeLimit = flag.Float64("timeLimit", 600, "Time limit per solve in seconds. 0 disables the limit")
	writeLP = flag.Bool("lp", false, "Write each model in LP format next to the input file")
	verbose = flag.Bool("verbose", false, "Let the solver log to the console")
	logLvl = flag.Int("log", 2, "Level of the logging output. Higher value is more verbose. Range 1-4")

	flag.Parse()
	pwlt.InitLoggers(*logLvl)

	hostStat, _ := host.Info()
	cpuStat, _ := cpu.Info()
	vmStat, _ := mem.VirtualMemory()
	system := pwlt.SysInfo{Platform: hostStat.Platform, RAM: fmt.Sprintf("%d GB", vmStat.Total/1024/1024/1024)}
	if len(cpuStat) > 0 {
		system.CPU = cpuStat[0].ModelName
	}

	instStr, err := ioutil.ReadFile(*inputF)
	if err != nil {
		pwlt.Log(pwlt.LOG_ERR, "At %s: %s\n", *inputF, err.Error())
		return
	}
	err = json.Unmarshal(instStr, &pInst)
	if err != nil {
		pwlt.Log(pwlt.LOG_ERR, "At %s: %s\n", *inputF, err.Error())
		return
	}

	if len(formulations) == 0 {
		formulations = pwlt.ArrayStringFlags(pwlt.Formulations)
	}
	for _, form := range formulations {
		if !pwlt.IsFormulation(form) {
			pwlt.Log(pwlt.LOG_ERR, "Unsupported formulation: %s\n", form)
			return
		}
	}

	backend, err := pwlt.NewBackend(*solverName)
	if err != nil {
		pwlt.Log(pwlt.LOG_ERR, "%s\n", err.Error())
		return
	}

	defer writeSolution()
	for _, form := range formulations {
		params := pwlt.SolveParams{TimeLimit: *timeLimit, Verbose: *verbose}
		if *writeLP {
			params.LPFile = strings.ReplaceAll(*inputF, ".json", fmt.Sprintf("_%s.lp", form))
		}

		pwlt.Log(pwlt.LOG_INFO, "Solving %s with the %s formulation", pInst.Name, form)
		run := pwlt.SolveFormulation(&pInst, form, backend, params)
		run.System = system
		pInst.Runs = append(pInst.Runs, run)
		pwlt.Log(pwlt.LOG_INFO, "%s: status %s, obj %.6f, time %s", form, run.Status, run.Obj, run.Time)
	}

	fmt.Printf("\n%-20s %-12s %14s %14s %12s %8s %8s\n", "Formulation", "Status", "Obj", "Bound", "Time", "Bins", "Constrs")
	for _, run := range pInst.Runs {
		fmt.Printf("%-20s %-12s %14.6f %14.6f %12s %8d %8d\n", run.Formulation, run.Status, run.Obj, run.Bound, run.Time, run.Binaries, run.Constrs)
	}
}

func writeSolution() {
	jsonInst, err := json.MarshalIndent(pInst, "", "\t")
	if err != nil {
		pwlt.Log(pwlt.LOG_ERR, "At %s: %s\n", *inputF, err.Error())
		return
	}
	jsonInst = []byte(pwlt.SanitizeJsonArrayLineBreaks(string(jsonInst)))
	fileName := *inputF //overwrite the input file
	if *outputF != "" {
		fileName = *outputF
	}
	err = ioutil.WriteFile(fileName, jsonInst, 0644)
	if err != nil {
		pwlt.Log(pwlt.LOG_ERR, "At %s: %s\n", *inputF, err.Error())
		return
	}
}
