/*
 * WWSim - Run control configuration test cases.
 *
 * Copyright 2024, Guy C. Fedorkow
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/config/configparser"
)

func TestRunConfig(t *testing.T) {
	cfg := config.NewConfig()
	input := "NOALARMSTOP\nCYCLELIMIT 5000 # cycles\n"
	require.NoError(t, config.LoadConfig(strings.NewReader(input), cfg))

	opts := OptionsFromConfig(cfg)
	assert.True(t, opts.NoAlarmStop)
	assert.Equal(t, int64(5000), opts.CycleLimit)

	for _, bad := range []string{"CYCLELIMIT lots\n", "CYCLELIMIT -1\n", "NOALARMSTOP yes\n"} {
		assert.Error(t, config.LoadConfig(strings.NewReader(bad), config.NewConfig()), bad)
	}
}
