package view

import "strings"

//RenderRows converts the raw cell buffer into text rows, one string per universe row
//bit y*w+x (LSB first) is the cell x,y; rows are cropped to maxW cells and maxH rows when positive
func RenderRows(buf []byte, w int, h int, maxW int, maxH int, live string, dead string) []string {
	if maxW <= 0 || maxW > w {
		maxW = w
	}
	if maxH <= 0 || maxH > h {
		maxH = h
	}
	rows := make([]string, 0, maxH)
	var b strings.Builder
	for y := 0; y < maxH; y++ {
		b.Reset()
		for x := 0; x < maxW; x++ {
			i := y*w + x
			if buf[i/8]>>(i%8)&1 == 1 {
				b.WriteString(live)
			} else {
				b.WriteString(dead)
			}
		}
		rows = append(rows, b.String())
	}
	return rows
}
