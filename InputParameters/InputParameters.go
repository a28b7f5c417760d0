package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type NozzleParameters struct {
	Title           string  `yaml:"Title"`
	Fluid           string  `yaml:"Fluid"`
	P0In            float64 `yaml:"P0In"`
	D0In            float64 `yaml:"D0In"`
	DIn             float64 `yaml:"DIn"`
	Length          float64 `yaml:"Length"`
	Roughness       float64 `yaml:"Roughness"`
	TWall           float64 `yaml:"TWall"`
	MaIn            float64 `yaml:"MaIn"`
	MaLow           float64 `yaml:"MaLow"`
	MaHigh          float64 `yaml:"MaHigh"`
	MaTarget        float64 `yaml:"MaTarget"`
	HeatTransfer    float64 `yaml:"HeatTransfer"`
	WallFriction    float64 `yaml:"WallFriction"`
	SolveMode       string  `yaml:"SolveMode"` // mach_in or mach_crit
	Method          string  `yaml:"Method"`
	WarmupMethod    string  `yaml:"WarmupMethod"`
	PolynomialOrder int     `yaml:"PolynomialOrder"`
	MaxSteps        int     `yaml:"MaxIterations"`
	WarmupSteps     int     `yaml:"WarmupIterations"`
	RTol            float64 `yaml:"RTol"`
	ATol            float64 `yaml:"ATol"`
	MarchingPoints  int     `yaml:"MarchingPoints"`
}

func (np *NozzleParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, np)
}

func (np *NozzleParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", np.Title)
	fmt.Printf("[%s]\t\t\t= Fluid\n", np.Fluid)
	fmt.Printf("%8.1f\t\t= P0In\n", np.P0In)
	fmt.Printf("%8.5f\t\t= D0In\n", np.D0In)
	fmt.Printf("%8.5f\t\t= DIn\n", np.DIn)
	fmt.Printf("%8.5f\t\t= Length\n", np.Length)
	fmt.Printf("%8.5f\t\t= MaIn\n", np.MaIn)
	fmt.Printf("%8.5f\t\t= MaTarget\n", np.MaTarget)
	fmt.Printf("[%s]\t\t= SolveMode\n", np.SolveMode)
	fmt.Printf("[%s]\t= Method\n", np.Method)
	fmt.Printf("[%d]\t\t\t\t= Polynomial Order\n", np.PolynomialOrder)
}
