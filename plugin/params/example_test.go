package params_test

import (
	"fmt"

	"github.com/cwbudde/algo-bandsplit/dsp/filter/crossover"
	"github.com/cwbudde/algo-bandsplit/plugin/params"
)

func ExampleSurface_Snapshot() {
	p := params.New()
	p.SetBandCount(4)
	if err := p.SetSplitFrequency(2, 8000); err != nil {
		panic(err)
	}

	var s crossover.Settings
	p.Snapshot(&s)

	fmt.Println(s.Bands, s.Family, s.Frequencies[:3])
	// Output:
	// 4 lr4 [20 300 8000]
}
