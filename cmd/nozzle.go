/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/notargets/gonozzle/InputParameters"
	"github.com/notargets/gonozzle/fluid"
	"github.com/notargets/gonozzle/model_problems/Nozzle1D"
	"github.com/notargets/gonozzle/nlsq"
	"github.com/notargets/gonozzle/plotting"
	"github.com/spf13/cobra"
)

// BvpCmd represents the bvp command
var BvpCmd = &cobra.Command{
	Use:   "bvp",
	Short: "Collocation boundary value solve of the nozzle flow",
	Long: `
Solves the steady quasi-1D nozzle flow as a boundary value problem on a
Chebyshev-Lobatto grid, either for a prescribed inlet Mach number or
for a prescribed peak (critical) Mach number,

gonozzle bvp`,
	Run: func(cmd *cobra.Command, args []string) {
		mn := loadModel(cmd)
		z0, err := Nozzle1D.InitializeFlowfield(mn.BVP.NumPoints, mn.Params)
		exitOn(err)
		start := time.Now()
		res, err := Nozzle1D.SolveCollocation(z0, mn.Params, mn.BVP)
		exitOn(err)
		fmt.Printf("solve time: %v\n", time.Since(start))
		fmt.Printf("status: %s, steps: %d, |r|: %8.3e\n",
			res.Status, res.Steps, res.ResidualNorm)
		printProfile(res.Field)
		printDiagnostics(res.Field)
		if mn.PlotFile != "" {
			exitOn(plotting.SaveProfiles(res.Field, mn.Title, mn.PlotFile))
			exitOn(plotting.SaveGeometry(mn.Params, 200, geometryPath(mn.PlotFile)))
		}
	},
}

// TransonicCmd represents the transonic command
var TransonicCmd = &cobra.Command{
	Use:   "transonic",
	Short: "Marched transonic (choked) nozzle flow",
	Long: `
Computes the choked flow by collocation, then marches the transonic
branch from the inlet through the sonic point to a supersonic exit,

gonozzle transonic`,
	Run: func(cmd *cobra.Command, args []string) {
		mn := loadModel(cmd)
		for _, p0 := range sweepPressures(cmd, mn.Params.P0In) {
			par, err := mn.Params.Replace("P0In", p0)
			exitOn(err)
			fmt.Printf("p0 = %10.1f Pa\n", p0)
			start := time.Now()
			res, err := Nozzle1D.SolveTransonic(par, mn.BVP, mn.IVP)
			exitOn(err)
			fmt.Printf("solve time: %v\n", time.Since(start))
			fmt.Printf("collocation status: %s, sonic point at x = %8.5f\n",
				res.Collocation.Status, res.XCritical)
			fmt.Printf("marching steps: %d accepted, %d rejected\n",
				res.Stats.StepCount, res.Stats.RejectedCount)
			printProfile(res.Field)
			printDiagnostics(res.Field)
			if mn.PlotFile != "" {
				exitOn(plotting.SaveProfiles(res.Field, mn.Title, mn.PlotFile))
				exitOn(plotting.SaveGeometry(par, 200, geometryPath(mn.PlotFile)))
			}
		}
	},
}

// geometryPath derives the wall contour image name from the profile
// plot name.
func geometryPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_geometry" + ext
}

// sweepPressures parses the comma separated --p0 flag; an empty flag
// yields a single run at the case file / default stagnation pressure.
func sweepPressures(cmd *cobra.Command, p0Default float64) (p0s []float64) {
	list, _ := cmd.Flags().GetString("p0")
	if list == "" {
		return []float64{p0Default}
	}
	for _, field := range strings.Split(list, ",") {
		p0, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		exitOn(err)
		p0s = append(p0s, p0)
	}
	return
}

func init() {
	rootCmd.AddCommand(BvpCmd)
	rootCmd.AddCommand(TransonicCmd)
	for _, c := range []*cobra.Command{BvpCmd, TransonicCmd} {
		c.Flags().StringP("input", "i", "", "YAML case file, see examples/choked_air.yaml")
		c.Flags().StringP("plot", "g", "", "write solution profiles to this image file")
		c.Flags().IntP("n", "n", 30, "collocation polynomial order")
		c.Flags().Float64("maIn", 0.1, "target inlet Mach number (bvp mach_in mode)")
		c.Flags().StringP("mode", "m", "mach_crit", "boundary mode: mach_in or mach_crit")
	}
	BvpCmd.Flags().Float64("maTarget", 0.9, "target critical Mach number")
	TransonicCmd.Flags().Float64("maTarget", 0.999, "target critical Mach number of the collocation stage")
	TransonicCmd.Flags().String("p0", "", "comma separated inlet stagnation pressures to sweep, e.g. 2e5,4e5,6e5")
}

// ModelNozzle collects everything a run needs after flag and file parsing.
type ModelNozzle struct {
	Title    string
	Params   Nozzle1D.NozzleParams
	BVP      Nozzle1D.BVPSettings
	IVP      Nozzle1D.IVPSettings
	PlotFile string
}

func loadModel(cmd *cobra.Command) (mn *ModelNozzle) {
	var (
		fluidName = "air"
		err       error
	)
	mn = &ModelNozzle{
		Title: "nozzle",
		BVP:   Nozzle1D.DefaultBVPSettings(),
		IVP:   Nozzle1D.DefaultIVPSettings(),
	}
	mn.PlotFile, _ = cmd.Flags().GetString("plot")
	mn.BVP.NumPoints, _ = cmd.Flags().GetInt("n")
	inputFile, _ := cmd.Flags().GetString("input")

	gas, err := fluid.NewPerfectGas(fluidName, 300, 1.e5)
	exitOn(err)
	mn.Params = Nozzle1D.DefaultParams(gas)
	mn.Params.MaTarget, _ = cmd.Flags().GetFloat64("maTarget")
	mn.Params.MaIn, _ = cmd.Flags().GetFloat64("maIn")
	modeName, _ := cmd.Flags().GetString("mode")
	mn.BVP.Mode, err = Nozzle1D.SolveModeFromName(modeName)
	exitOn(err)

	if inputFile == "" {
		return
	}
	data, err := ioutil.ReadFile(inputFile)
	exitOn(err)
	var ip InputParameters.NozzleParameters
	exitOn(ip.Parse(data))
	ip.Print()
	exitOn(applyInput(&ip, mn))
	return
}

// applyInput overlays the non-zero fields of the YAML case file onto
// the model, replacing the flag values.
func applyInput(ip *InputParameters.NozzleParameters, mn *ModelNozzle) (err error) {
	if ip.Title != "" {
		mn.Title = ip.Title
	}
	if ip.Fluid != "" {
		var gas fluid.PerfectGas
		if gas, err = fluid.NewPerfectGas(ip.Fluid, 300, 1.e5); err != nil {
			return
		}
		mn.Params.Fluid = gas
	}
	for _, f := range []struct {
		name string
		val  float64
	}{
		{"P0In", ip.P0In}, {"D0In", ip.D0In}, {"DIn", ip.DIn},
		{"Length", ip.Length}, {"Roughness", ip.Roughness},
		{"TWall", ip.TWall}, {"MaIn", ip.MaIn}, {"MaLow", ip.MaLow},
		{"MaHigh", ip.MaHigh}, {"MaTarget", ip.MaTarget},
		{"HeatTransfer", ip.HeatTransfer}, {"WallFriction", ip.WallFriction},
	} {
		if f.val == 0 {
			continue
		}
		if mn.Params, err = mn.Params.Replace(f.name, f.val); err != nil {
			return
		}
	}
	if ip.SolveMode != "" {
		if mn.BVP.Mode, err = Nozzle1D.SolveModeFromName(ip.SolveMode); err != nil {
			return
		}
	}
	if ip.Method != "" {
		if mn.BVP.Method, err = nlsq.MethodFromName(ip.Method); err != nil {
			return
		}
	}
	if ip.WarmupMethod != "" {
		if mn.BVP.WarmupMethod, err = nlsq.MethodFromName(ip.WarmupMethod); err != nil {
			return
		}
	}
	if ip.PolynomialOrder != 0 {
		mn.BVP.NumPoints = ip.PolynomialOrder
	}
	if ip.MaxSteps != 0 {
		mn.BVP.MaxSteps = ip.MaxSteps
	}
	if ip.WarmupSteps != 0 {
		mn.BVP.WarmupSteps = ip.WarmupSteps
	}
	if ip.RTol != 0 {
		mn.BVP.RTol = ip.RTol
		mn.IVP.RTol = ip.RTol
	}
	if ip.ATol != 0 {
		mn.BVP.ATol = ip.ATol
		mn.IVP.ATol = ip.ATol
	}
	if ip.MarchingPoints != 0 {
		mn.IVP.NumberOfPoints = ip.MarchingPoints
	}
	return
}

// printDiagnostics reports the relative spread of the conserved
// quantities over the solved field.
func printDiagnostics(ff Nozzle1D.FlowField) {
	spread := func(v []float64) float64 {
		lo, hi := v[0], v[0]
		for _, x := range v {
			lo = math.Min(lo, x)
			hi = math.Max(hi, x)
		}
		return (hi - lo) / math.Abs(hi)
	}
	fmt.Printf("uniformity: mdot %9.3e, h0 %9.3e, s %9.3e\n",
		spread(ff.Mdot), spread(ff.H0), spread(ff.S))
}

func printProfile(ff Nozzle1D.FlowField) {
	fmt.Printf("%10s %10s %12s %12s %10s %12s\n",
		"x", "Ma", "p", "rho", "T", "mdot")
	for i := range ff.X {
		fmt.Printf("%10.5f %10.6f %12.2f %12.6f %10.3f %12.6f\n",
			ff.X[i], ff.Ma[i], ff.P[i], ff.D[i], ff.T[i], ff.Mdot[i])
	}
}

func exitOn(err error) {
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
