/*
 * WWSim - Core image writer.
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

package coreimage

import (
	"bufio"
	"crypto/md5"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"

	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/disassemble"
	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/modelflexo"
	W "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/word"
)

const columns = 8

// Header values of a written image.
type Meta struct {
	File       string     // Source file name.
	TapeID     string     // Tape identifier, spaces are removed.
	JumpTo     *W.Address // Start address, nil for none.
	Stats      string     // Optional statistics line.
	Strings    []string   // Optional %String lines.
	ByteStream bool       // Write @T tape form instead of @C.
	Offset     int        // Added to every address.
}

// Fingerprint of an image: first twelve hex digits of the md5 split in
// two, followed by the word count.
func fingerprint(h hash.Hash, count int) string {
	sum := hex.EncodeToString(h.Sum(nil))
	return fmt.Sprintf("%s-%s-%d", sum[0:6], sum[6:12], count)
}

func hashWord(h hash.Hash, v int) {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], uint16(v))
	h.Write(buf[:])
}

// Write image to named file.
func WriteFile(name string, blocks [][]*W.Word, meta Meta) error {
	file, err := os.Create(name)
	if err != nil {
		return err
	}
	err = Write(file, blocks, meta)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	return err
}

// Write blocks of memory in image form. Core blocks are written in full,
// a byte stream ends at its first all-empty line.
func Write(w io.Writer, blocks [][]*W.Word, meta Meta) error {
	out := bufio.NewWriter(w)
	flexo := modelflexo.NewTranslator(false)
	h := md5.New()

	fileType := "Core Image"
	tag := "@C"
	if meta.ByteStream {
		fileType = "Tape Bytestream"
		tag = "@T"
	}
	fmt.Fprintf(out, "\n; *** %s ***\n", fileType)
	fmt.Fprintf(out, "%%File: %s\n", meta.File)
	fmt.Fprintf(out, "%%TapeID: %s\n", strings.ReplaceAll(meta.TapeID, " ", ""))
	if meta.JumpTo != nil {
		fmt.Fprintf(out, "%%JumpTo 0%o\n", *meta.JumpTo)
	}
	if meta.Stats != "" {
		fmt.Fprintf(out, "%%Stats: %s\n", meta.Stats)
	}

	count := 0
	for blockNum, block := range blocks {
		fmt.Fprintf(out, "%%Blocknum 0o%o\n", blockNum)
		for addr := 0; ; addr += columns {
			if meta.ByteStream && addr >= len(block) {
				break
			}
			if !meta.ByteStream && addr >= W.CoreSize {
				break
			}
			nonNull := 0
			row := ""
			low := ""
			high := ""
			ops := ""
			for i := 0; i < columns; i++ {
				var m *W.Word
				if addr+i < len(block) {
					m = block[addr+i]
				} else if meta.ByteStream {
					break
				}
				if m == nil {
					row += " None   "
					low += "  "
					high += "  "
					ops += "  "
					continue
				}
				v := *m
				row += fmt.Sprintf("%07o ", uint16(v))
				hashWord(h, int(v))
				count++
				nonNull++
				low += flexo.Letter(int(v)&0x3f, true)
				high += flexo.Letter(int(v>>10)&0x3f, true)
				ops += disassemble.Mnemonic(v) + " "
			}
			if nonNull != 0 {
				fmt.Fprintf(out, "%s%05o: %s ; %24s : %16s : %16s\n",
					tag, addr+meta.Offset, row, ops, low, high)
				hashWord(h, addr+meta.Offset)
			} else if meta.ByteStream {
				break
			}
		}
	}

	fmt.Fprintf(out, "\n%%Hash: %s\n", fingerprint(h, count))
	if len(meta.Strings) > 0 {
		fmt.Fprintln(out)
		for _, str := range meta.Strings {
			fmt.Fprintf(out, "%%String: %s\n", str)
		}
	}
	return out.Flush()
}
