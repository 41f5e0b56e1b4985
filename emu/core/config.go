/*
 * WWSim - Run control configuration options.
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
	"fmt"
	"strconv"

	config "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/config/configparser"
)

// register run options on initialize.
func init() {
	config.RegisterSwitch("NOALARMSTOP", setNoAlarmStop)
	config.RegisterOption("CYCLELIMIT", setCycleLimit)
}

func setNoAlarmStop(cfg *config.Config, _ string, _ []config.Option) error {
	cfg.NoAlarmStop = true
	return nil
}

// CYCLELIMIT <decimal count>
func setCycleLimit(cfg *config.Config, first string, _ []config.Option) error {
	limit, err := strconv.Atoi(first)
	if err != nil || limit < 0 {
		return fmt.Errorf("cycle limit must be a positive number: %s", first)
	}
	cfg.CycleLimit = limit
	return nil
}

// Run options from a configuration, command line settings override.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{NoAlarmStop: cfg.NoAlarmStop, CycleLimit: int64(cfg.CycleLimit)}
}
