// Copyright © 2023-2024 The frakka Authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cmd

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/stroehleina/frakka/frakka/cmd/kraken"
)

// NoSpecies is the true species when it is not given.
const NoSpecies = "N/A"

// pairSource contains the ways of giving report and classification files.
type pairSource struct {
	Reports []string
	Outputs []string
	Species []string

	FileOfFiles string

	InDir        string
	ReportSuffix string
	OutputSuffix string

	Taxid bool // true species are TaxIds
}

func addPairFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceP("kreport", "k", []string{}, `Kraken2 report file(s), comma-separated if multiple`)
	cmd.Flags().StringSliceP("kout", "K", []string{}, `Kraken2 output file(s), comma-separated if multiple, must be in the same order as -k/--kreport`)
	cmd.Flags().StringSliceP("species", "S", []string{}, `true/known species names or TaxIds, comma-separated if multiple, in the same order as -k/--kreport. A single value applies to all files`)
	cmd.Flags().StringP("fof", "f", "", `tab-delimited file with one pair of report and output files per line, optional with a third column of true/known species`)
	cmd.Flags().StringP("in-dir", "I", "", `directory containing pairs of report and output files with the same prefix. Directory symlinks are followed`)
	cmd.Flags().StringP("report-suffix", "", ".kreport", `file suffix of reports in -I/--in-dir`)
	cmd.Flags().StringP("kout-suffix", "", ".kraken", `file suffix of Kraken2 output files in -I/--in-dir`)
	cmd.Flags().Float64P("score", "s", 0, `confidence score threshold, only reads with a score not smaller than this are reported. range: [0, 1]`)
	cmd.Flags().BoolP("taxid", "t", false, `true species and output species are TaxIds instead of species names`)
}

func getPairSource(cmd *cobra.Command) *pairSource {
	return &pairSource{
		Reports:      getFlagStringSlice(cmd, "kreport"),
		Outputs:      getFlagStringSlice(cmd, "kout"),
		Species:      getFlagStringSlice(cmd, "species"),
		FileOfFiles:  getFlagString(cmd, "fof"),
		InDir:        getFlagString(cmd, "in-dir"),
		ReportSuffix: getFlagString(cmd, "report-suffix"),
		OutputSuffix: getFlagString(cmd, "kout-suffix"),
		Taxid:        getFlagBool(cmd, "taxid"),
	}
}

func getScoreThreshold(cmd *cobra.Command) float64 {
	score := getFlagFloat64(cmd, "score")
	if score < 0 || score > 1 {
		checkError(fmt.Errorf("value of -s/--score should be in range [0, 1]"))
	}
	return score
}

// resolvePairs returns the file pairs to process, in the given order.
func resolvePairs(src *pairSource, log kraken.Logger) ([]kraken.FilePair, error) {
	var sources int
	if len(src.Reports) > 0 || len(src.Outputs) > 0 {
		sources++
		if len(src.Reports) == 0 || len(src.Outputs) == 0 {
			return nil, fmt.Errorf("both -k/--kreport and -K/--kout are needed")
		}
	}
	if src.FileOfFiles != "" {
		sources++
	}
	if src.InDir != "" {
		sources++
	}
	if sources == 0 {
		return nil, fmt.Errorf("input files needed: -k/--kreport and -K/--kout, or -f/--fof, or -I/--in-dir")
	}
	if sources > 1 {
		return nil, fmt.Errorf("only one of -k/--kreport and -K/--kout, -f/--fof, -I/--in-dir is allowed")
	}

	var pairs []kraken.FilePair
	var err error
	switch {
	case src.FileOfFiles != "":
		pairs, err = pairsFromFileOfFiles(src, log)
	case src.InDir != "":
		pairs, err = pairsFromDir(src, log)
	default:
		if len(src.Reports) != len(src.Outputs) {
			return nil, fmt.Errorf("the numbers of files given by -k/--kreport (%d) and -K/--kout (%d) do not match",
				len(src.Reports), len(src.Outputs))
		}
		pairs = make([]kraken.FilePair, len(src.Reports))
		for i := range src.Reports {
			pairs[i] = kraken.FilePair{Report: src.Reports[i], Classification: src.Outputs[i]}
		}
		err = assignSpecies(pairs, src.Species, log)
	}
	if err != nil {
		return nil, err
	}

	for i := range pairs {
		if pairs[i].Report, err = homedir.Expand(pairs[i].Report); err != nil {
			return nil, errors.Wrap(err, pairs[i].Report)
		}
		if pairs[i].Classification, err = homedir.Expand(pairs[i].Classification); err != nil {
			return nil, errors.Wrap(err, pairs[i].Classification)
		}
		if src.Taxid && !isTaxId(pairs[i].TrueSpecies) {
			return nil, fmt.Errorf("-t/--taxid given but true species contains non-numerical characters: %s. Did you provide species names instead?",
				pairs[i].TrueSpecies)
		}
	}

	return pairs, nil
}

// assignSpecies sets true species of pairs, one value is used for all pairs.
func assignSpecies(pairs []kraken.FilePair, species []string, log kraken.Logger) error {
	if len(species) == 0 {
		species = []string{NoSpecies}
	}

	if len(species) == 1 {
		if len(pairs) > 1 && species[0] != NoSpecies {
			log.Infof("only one species given for %d reports, assuming true/known species is %s for all reports", len(pairs), species[0])
		}
		for i := range pairs {
			pairs[i].TrueSpecies = species[0]
		}
		return nil
	}

	if len(species) != len(pairs) {
		return fmt.Errorf("the numbers of species (%d) and pairs of files (%d) do not match", len(species), len(pairs))
	}
	for i := range pairs {
		pairs[i].TrueSpecies = species[i]
	}
	return nil
}

func isTaxId(s string) bool {
	if s == NoSpecies {
		return true
	}
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func pairsFromFileOfFiles(src *pairSource, log kraken.Logger) ([]kraken.FilePair, error) {
	log.Infof("reading file-of-files: %s", src.FileOfFiles)
	t, err := kraken.ReadTable(expandPathErr(src.FileOfFiles), log)
	if err != nil {
		return nil, err
	}
	if len(t.Rows) == 0 {
		return nil, fmt.Errorf("no file pairs found in file-of-files: %s", src.FileOfFiles)
	}

	switch t.NumColumns {
	case 2, 3:
	default:
		return nil, fmt.Errorf("file-of-files should have 2 or 3 columns, %d found: %s", t.NumColumns, src.FileOfFiles)
	}
	if t.NumColumns == 3 && len(src.Species) > 0 {
		return nil, fmt.Errorf("species given in column 3 of file-of-files and also via -S/--species, please provide only one of them")
	}

	pairs := make([]kraken.FilePair, len(t.Rows))
	for i, row := range t.Rows {
		pairs[i] = kraken.FilePair{Report: row[0], Classification: row[1]}
		if t.NumColumns == 3 {
			pairs[i].TrueSpecies = row[2]
		}
	}
	if t.NumColumns == 2 {
		if err = assignSpecies(pairs, src.Species, log); err != nil {
			return nil, err
		}
	}
	return pairs, nil
}

func pairsFromDir(src *pairSource, log kraken.Logger) ([]kraken.FilePair, error) {
	if src.ReportSuffix == "" || src.OutputSuffix == "" || src.ReportSuffix == src.OutputSuffix {
		return nil, fmt.Errorf("--report-suffix and --kout-suffix should be non-empty and different")
	}
	dir := expandPathErr(src.InDir)

	log.Infof("searching pairs of files in directory: %s", dir)
	reports, err := getFileListFromDir(dir, regexp.MustCompile(regexp.QuoteMeta(src.ReportSuffix)+"$"))
	if err != nil {
		return nil, errors.Wrap(err, dir)
	}
	outputs, err := getFileListFromDir(dir, regexp.MustCompile(regexp.QuoteMeta(src.OutputSuffix)+"$"))
	if err != nil {
		return nil, errors.Wrap(err, dir)
	}

	prefix2output := make(map[string]string, len(outputs))
	for _, file := range outputs {
		prefix2output[strings.TrimSuffix(file, src.OutputSuffix)] = file
	}

	sort.Strings(reports)
	pairs := make([]kraken.FilePair, 0, len(reports))
	for _, file := range reports {
		output, ok := prefix2output[strings.TrimSuffix(file, src.ReportSuffix)]
		if !ok {
			return nil, fmt.Errorf("no Kraken2 output file (%s) found for report: %s", src.OutputSuffix, file)
		}
		pairs = append(pairs, kraken.FilePair{Report: file, Classification: output})
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("no reports (%s) found in directory: %s", src.ReportSuffix, dir)
	}
	log.Infof("  %d pairs of files found", len(pairs))

	if err = assignSpecies(pairs, src.Species, log); err != nil {
		return nil, err
	}
	return pairs, nil
}

func expandPathErr(file string) string {
	path, err := homedir.Expand(file)
	if err != nil {
		return file
	}
	return filepath.Clean(path)
}
