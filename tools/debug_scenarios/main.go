package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	calc "github.com/ulproj/ul-projector/internal/calculation"
	"github.com/ulproj/ul-projector/internal/config"
	"github.com/ulproj/ul-projector/internal/ratetable"
)

// Prints end-of-year PAV and deduction for every scenario side by side, one
// CSV line per policy year, so diverging scenarios are easy to spot.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: debug_scenarios <policy-file>")
		return
	}
	book := ratetable.SampleBook()
	policy, err := config.NewInputParser(book).LoadFromFile(os.Args[1])
	if err != nil {
		panic(err)
	}
	res, err := calc.NewProjectionEngine(book).ProjectPolicy(context.Background(), policy)
	if err != nil {
		panic(err)
	}

	header := []string{"Year", "Age"}
	for i := range res.Scenarios {
		header = append(header, fmt.Sprintf("S%d_PAV", i+1), fmt.Sprintf("S%d_Ded", i+1))
	}
	fmt.Println(strings.Join(header, ","))

	for idx := 0; idx < res.Term; idx++ {
		row := []string{fmt.Sprint(idx + 1), ""}
		for _, s := range res.Scenarios {
			if idx >= len(s.Rows) {
				row = append(row, "", "")
				continue
			}
			r := s.Rows[idx]
			row[1] = fmt.Sprint(r.Age)
			pav := r.EndPAV.StringFixed(0)
			if !r.DeductionFlag {
				pav = "LAPSE"
			}
			row = append(row, pav, r.Deduction.StringFixed(0))
		}
		fmt.Println(strings.Join(row, ","))
	}

	fmt.Println()
	for i, s := range res.Scenarios {
		fmt.Printf("S%d = %s\n", i+1, s.Key)
	}
}
