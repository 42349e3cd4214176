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

	"github.com/shenwei356/xopen"
	"github.com/stroehleina/frakka/frakka/cmd/kraken"
	"gopkg.in/yaml.v2"
)

const runInfoSuffix = ".info.yml"

// RunInfo records the parameters and per-file statistics of a run.
type RunInfo struct {
	Version        string  `yaml:"version"`
	Mode           string  `yaml:"mode"`
	ScoreThreshold float64 `yaml:"score-threshold"`
	Taxid          bool    `yaml:"taxid"`
	Delimiter      string  `yaml:"delimiter"`
	SortBy         string  `yaml:"sort-by,omitempty"`
	Output         string  `yaml:"output"`

	Files []PairInfo `yaml:"files"`
}

// PairInfo is the statistics of one pair of files.
type PairInfo struct {
	Report         string `yaml:"report"`
	Classification string `yaml:"kout"`
	TrueSpecies    string `yaml:"species"`

	Records        int `yaml:"records"`
	Classified     int `yaml:"classified"`
	Unclassified   int `yaml:"unclassified"`
	Unscored       int `yaml:"unscored"`
	BelowThreshold int `yaml:"below-threshold"`
	AboveSpecies   int `yaml:"above-species"`

	Alternate bool `yaml:"alternate-layout,omitempty"`
}

func (i RunInfo) String() string {
	var records int
	for _, f := range i.Files {
		records += f.Records
	}
	return fmt.Sprintf("frakka v%s (%s mode): %d pairs of files, %d records, score threshold: %v",
		i.Version, i.Mode, len(i.Files), records, i.ScoreThreshold)
}

// Add appends the statistics of a processed pair.
func (i *RunInfo) Add(result *kraken.Result) {
	s := result.Stats
	i.Files = append(i.Files, PairInfo{
		Report:         result.Pair.Report,
		Classification: result.Pair.Classification,
		TrueSpecies:    result.Pair.TrueSpecies,

		Records:        len(result.Records),
		Classified:     s.Lines - s.Unclassified,
		Unclassified:   s.Unclassified,
		Unscored:       s.Unscored,
		BelowThreshold: s.BelowThreshold,
		AboveSpecies:   s.AboveSpecies,

		Alternate: result.Alternate,
	})
}

// WriteTo dumps RunInfo to file.
func (i RunInfo) WriteTo(file string) (int, error) {
	data, err := yaml.Marshal(i)
	if err != nil {
		return 0, fmt.Errorf("fail to marshal run info")
	}

	w, err := xopen.Wopen(file)
	if err != nil {
		return 0, fmt.Errorf("fail to write run info file: %s", file)
	}
	n, err := w.Write(data)
	if err != nil {
		w.Close()
		return 0, fmt.Errorf("fail to write run info file: %s", file)
	}
	return n, w.Close()
}
