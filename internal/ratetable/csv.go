package ratetable

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/ulproj/ul-projector/internal/domain"
)

// csvFile describes one file of a rate directory.
type csvFile struct {
	name     string
	header   []string
	required bool
	apply    func(b *Book, fields []string) error
}

var csvFiles = []csvFile{
	{
		name:   "alloc_charge.csv",
		header: []string{"product", "year", "tp_rate", "ep_rate"},
		apply: func(b *Book, f []string) error {
			year, err := atoi("year", f[1])
			if err != nil {
				return err
			}
			tp, err := dec("tp_rate", f[2])
			if err != nil {
				return err
			}
			ep, err := dec("ep_rate", f[3])
			if err != nil {
				return err
			}
			b.SetAllocationCharge(domain.ProductID(f[0]), year, tp, ep)
			return nil
		},
	},
	keyedFile("surrender_charge.csv", "year", (*Book).SetSurrenderCharge),
	keyedFile("loyalty_bonus.csv", "year", (*Book).SetLoyaltyBonus),
	keyedFile("juvenile_lien.csv", "age", (*Book).SetJuvenileLien),
	keyedFile("admin_charge.csv", "cal_year", (*Book).SetAdminCharge),
	genderAgeFile("coi.csv", false, (*Book).SetCOI),
	genderAgeFile("premium_rate.csv", true, (*Book).SetPremiumRate),
	{
		name:   "extra_premium_rate.csv",
		header: []string{"product", "gender", "age", "term", "rate"},
		apply: func(b *Book, f []string) error {
			ints, err := atois(f[1:4], "gender", "age", "term")
			if err != nil {
				return err
			}
			rate, err := dec("rate", f[4])
			if err != nil {
				return err
			}
			b.SetExtraPremiumRate(domain.ProductID(f[0]), ints[0], ints[1], ints[2], rate)
			return nil
		},
	},
	{
		name:     "modal_factor.csv",
		header:   []string{"product", "annual", "semi_annual", "quarterly", "monthly"},
		required: true,
		apply: func(b *Book, f []string) error {
			v, err := decs(f[1:], "annual", "semi_annual", "quarterly", "monthly")
			if err != nil {
				return err
			}
			b.SetModalFactors(domain.ProductID(f[0]), ModalFactors{Annual: v[0], SemiAnnual: v[1], Quarterly: v[2], Monthly: v[3]})
			return nil
		},
	},
	{
		name:     "interest_rate.csv",
		header:   []string{"product", "high", "low", "guaranteed"},
		required: true,
		apply: func(b *Book, f []string) error {
			v, err := decs(f[1:], "high", "low", "guaranteed")
			if err != nil {
				return err
			}
			b.SetInterestRates(domain.ProductID(f[0]), InterestRates{High: v[0], Low: v[1], Guaranteed: v[2]})
			return nil
		},
	},
	{
		name:   "age_validation.csv",
		header: []string{"product", "min_entry_age", "max_entry_age", "maturity_age"},
		apply: func(b *Book, f []string) error {
			v, err := atois(f[1:], "min_entry_age", "max_entry_age", "maturity_age")
			if err != nil {
				return err
			}
			b.SetAgeBounds(domain.ProductID(f[0]), AgeBounds{MinEntryAge: v[0], MaxEntryAge: v[1], MaturityAge: v[2]})
			return nil
		},
	},
}

func keyedFile(name, keyColumn string, set func(*Book, domain.ProductID, int, decimal.Decimal)) csvFile {
	return csvFile{
		name:   name,
		header: []string{"product", keyColumn, "rate"},
		apply: func(b *Book, f []string) error {
			key, err := atoi(keyColumn, f[1])
			if err != nil {
				return err
			}
			rate, err := dec("rate", f[2])
			if err != nil {
				return err
			}
			set(b, domain.ProductID(f[0]), key, rate)
			return nil
		},
	}
}

func genderAgeFile(name string, required bool, set func(*Book, domain.ProductID, int, int, decimal.Decimal)) csvFile {
	return csvFile{
		name:     name,
		header:   []string{"product", "gender", "age", "rate"},
		required: required,
		apply: func(b *Book, f []string) error {
			v, err := atois(f[1:3], "gender", "age")
			if err != nil {
				return err
			}
			rate, err := dec("rate", f[3])
			if err != nil {
				return err
			}
			set(b, domain.ProductID(f[0]), v[0], v[1], rate)
			return nil
		},
	}
}

// LoadDir reads a rate directory into a Book. Optional files may be absent;
// malformed rows are rejected with their file and line.
func LoadDir(dir string) (*Book, error) {
	b := NewBook()
	for _, spec := range csvFiles {
		path := filepath.Join(dir, spec.name)
		if err := loadCSV(b, path, spec); err != nil {
			if errors.Is(err, os.ErrNotExist) && !spec.required {
				continue
			}
			return nil, &domain.ConfigurationError{Resource: "rate directory", Key: spec.name, Reason: "failed to load", Err: err}
		}
	}
	return b, nil
}

func loadCSV(b *Book, path string, spec csvFile) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(spec.header)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	for i, col := range spec.header {
		if header[i] != col {
			return fmt.Errorf("unexpected header column %d: got %q, want %q", i+1, header[i], col)
		}
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read data row: %w", err)
		}
		line, _ := reader.FieldPos(0)
		if err := spec.apply(b, record); err != nil {
			return fmt.Errorf("%s:%d: %w", filepath.Base(path), line, err)
		}
	}
	return nil
}

// ExportDir writes the book as a rate directory readable by LoadDir.
func (b *Book) ExportDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	rows := b.Rows()

	records := map[string][][]string{}
	for _, r := range rows.Allocation {
		records["alloc_charge.csv"] = append(records["alloc_charge.csv"],
			[]string{string(r.Product), strconv.Itoa(r.Year), r.TPRate.String(), r.EPRate.String()})
	}
	keyedNames := map[string]string{
		TableSurrenderCharge: "surrender_charge.csv",
		TableLoyaltyBonus:    "loyalty_bonus.csv",
		TableJuvenileLien:    "juvenile_lien.csv",
		TableAdminCharge:     "admin_charge.csv",
	}
	for _, r := range rows.Keyed {
		name := keyedNames[r.Table]
		records[name] = append(records[name], []string{string(r.Product), strconv.Itoa(r.Key), r.Rate.String()})
	}
	for _, r := range rows.COI {
		records["coi.csv"] = append(records["coi.csv"],
			[]string{string(r.Product), strconv.Itoa(r.Gender), strconv.Itoa(r.Age), r.Rate.String()})
	}
	for _, r := range rows.Premium {
		records["premium_rate.csv"] = append(records["premium_rate.csv"],
			[]string{string(r.Product), strconv.Itoa(r.Gender), strconv.Itoa(r.Age), r.Rate.String()})
	}
	for _, r := range rows.ExtraPremium {
		records["extra_premium_rate.csv"] = append(records["extra_premium_rate.csv"],
			[]string{string(r.Product), strconv.Itoa(r.Gender), strconv.Itoa(r.Age), strconv.Itoa(r.Term), r.Rate.String()})
	}
	for _, r := range rows.Modal {
		f := r.Factors
		records["modal_factor.csv"] = append(records["modal_factor.csv"],
			[]string{string(r.Product), f.Annual.String(), f.SemiAnnual.String(), f.Quarterly.String(), f.Monthly.String()})
	}
	for _, r := range rows.Interest {
		records["interest_rate.csv"] = append(records["interest_rate.csv"],
			[]string{string(r.Product), r.Rates.High.String(), r.Rates.Low.String(), r.Rates.Guaranteed.String()})
	}
	for _, r := range rows.Ages {
		a := r.Bounds
		records["age_validation.csv"] = append(records["age_validation.csv"],
			[]string{string(r.Product), strconv.Itoa(a.MinEntryAge), strconv.Itoa(a.MaxEntryAge), strconv.Itoa(a.MaturityAge)})
	}

	for _, spec := range csvFiles {
		if err := writeCSV(filepath.Join(dir, spec.name), spec.header, records[spec.name]); err != nil {
			return err
		}
	}
	return nil
}

func writeCSV(path string, header []string, records [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header to %s: %w", path, err)
	}
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return file.Close()
}

func atoi(column, s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", column, s, err)
	}
	return v, nil
}

func atois(fields []string, columns ...string) ([]int, error) {
	out := make([]int, len(columns))
	for i, c := range columns {
		v, err := atoi(c, fields[i])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func dec(column, s string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", column, s, err)
	}
	return v, nil
}

func decs(fields []string, columns ...string) ([]decimal.Decimal, error) {
	out := make([]decimal.Decimal, len(columns))
	for i, c := range columns {
		v, err := dec(c, fields[i])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
