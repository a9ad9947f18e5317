package main

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"strings"

	"git.solver4all.com/azaryc2s/pwlt"
)

func main() {
	if len(os.Args) < 2 {
		log.Printf("No arguments passed!")
		return
	}
	dirName := os.Args[1]
	dir, err := ioutil.ReadDir(dirName)
	if err != nil {
		log.Printf("Couldn't open directory %s: %s\n", os.Args[1], err.Error())
		return
	}
	fmt.Printf("Name,Formulation,Solver,Status,Optimal,Time,Obj,Bound,Gap,Vars,Binaries,Constrs,Comment\n")
	for _, f := range dir {
		fileName := dirName + "/" + f.Name()
		if !strings.Contains(fileName, ".json") {
			continue
		}
		inst := pwlt.Instance{}
		instStr, err := ioutil.ReadFile(fileName)
		if err != nil {
			log.Printf("Couldn't read %s: %s\n", f.Name(), err.Error())
			return
		}
		err = json.Unmarshal(instStr, &inst)
		if err != nil {
			log.Printf("Couldn't parse %s: %s\n", f.Name(), err.Error())
			return
		}
		if len(inst.Runs) == 0 {
			fmt.Printf("No runs for %s\n", inst.Name)
			continue
		}
		for _, run := range inst.Runs {
			fmt.Printf("%s,%s,%s,%s,%t,%s,%.6f,%.6f,%s,%d,%d,%d,%s\n",
				inst.Name, run.Formulation, run.Solver, run.Status, run.Optimal,
				run.Time, run.Obj, run.Bound, run.GapString(), run.Vars, run.Binaries, run.Constrs, run.Comment)
		}
	}
}
