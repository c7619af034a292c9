// Copyright 2026 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dataset

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gorse-io/bagged/base/encoding"
	"github.com/juju/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

// Describe writes a summary line followed by a table of bags with their sizes and labels.
func (d *Bagged) Describe(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%d instances, %d features, %d bags\n",
		d.NumberOfInstances(), d.Dimension(), d.NumberOfBags()); err != nil {
		return errors.Trace(err)
	}
	header := []string{"bag", "size"}
	for j := 1; j <= d.bagLabels.cols; j++ {
		header = append(header, "label"+strconv.Itoa(j))
	}
	table := tablewriter.NewWriter(w)
	table.Header(lo.ToAnySlice(header)...)
	for bag, size := range d.BagSizes() {
		row := []string{strconv.Itoa(bag), strconv.Itoa(size)}
		for _, v := range d.bagLabels.row(bag) {
			row = append(row, encoding.FormatFloat(v))
		}
		if err := table.Append(row); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(table.Render())
}
