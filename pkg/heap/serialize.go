package heap

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
)

// BlockView is a read-only snapshot of one block in the chain. It is a
// plain value copy, so holding one cannot mutate or outlive the arena's
// actual state.
type BlockView struct {
	Index         int
	HeaderAddress uintptr
	TotalSize     int
	DataSize      int
	Free          bool
	NextAddress   uintptr // zero if this is the last block
}

func (v BlockView) state() string {
	if v.Free {
		return "Free"
	}
	return "Allocated"
}

// Blocks returns a snapshot of every block currently in the chain, in
// address order. Used by WriteText, WriteJSON, and directly by callers
// that want programmatic access to the layout.
func (h *Heap) Blocks() []BlockView {
	var views []BlockView
	for i, cur := 0, h.first; cur != nil; i, cur = i+1, cur.next {
		v := BlockView{
			Index:         i,
			HeaderAddress: addr(cur),
			TotalSize:     int(cur.size),
			DataSize:      int(cur.size - headerSize),
			Free:          cur.free,
		}
		if cur.next != nil {
			v.NextAddress = addr(cur.next)
		}
		views = append(views, v)
	}
	return views
}

// WriteText writes the human-readable heap layout dump, matching the
// original's print_heap/save_heap_state format: one stanza per block,
// bracketed by "Heap Layout:" and "End of Heap".
func (h *Heap) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "Heap Layout:"); err != nil {
		return err
	}

	for _, v := range h.Blocks() {
		if _, err := fmt.Fprintf(w, "Block %d:\n", v.Index); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "  Block Header Address: %#x\n", v.HeaderAddress); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "  Block Total Size: %d bytes\n", v.TotalSize); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "  Block Data Size: %d bytes\n", v.DataSize); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "  Block State: %s\n\n", v.state()); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w, "End of Heap")
	return err
}

type jsonBlock struct {
	BlockIndex    int    `json:"block_index"`
	HeaderAddress string `json:"header_address"`
	TotalSize     int    `json:"total_size"`
	DataSize      int    `json:"data_size"`
	State         string `json:"state"`
	NextBlock     string `json:"next_block"`
}

type jsonStats struct {
	HeapSize           int     `json:"heap_size"`
	AllocatedBlocks    int     `json:"allocated_blocks"`
	FreeBlocks         int     `json:"free_blocks"`
	UsedHeapSize       int     `json:"used_heap_size"`
	FreeHeapSize       int     `json:"free_heap_size"`
	FragmentationRatio float64 `json:"fragmentation_ratio"`
}

type jsonDump struct {
	HeapLayout []jsonBlock `json:"heap_layout"`
	HeapStats  jsonStats   `json:"heap_stats"`
}

// WriteJSON writes a strict-JSON heap layout and stats dump. Unlike the
// original's hand-rolled fprintf emitter, which can leave the "heap_layout"
// array malformed on certain block counts, encoding/json guarantees
// well-formed output by construction.
func (h *Heap) WriteJSON(w io.Writer) error {
	dump := jsonDump{HeapLayout: []jsonBlock{}}

	for _, v := range h.Blocks() {
		next := "0x0"
		if v.NextAddress != 0 {
			next = fmt.Sprintf("%#x", v.NextAddress)
		}
		dump.HeapLayout = append(dump.HeapLayout, jsonBlock{
			BlockIndex:    v.Index,
			HeaderAddress: fmt.Sprintf("%#x", v.HeaderAddress),
			TotalSize:     v.TotalSize,
			DataSize:      v.DataSize,
			State:         v.state(),
			NextBlock:     next,
		})
	}

	dump.HeapStats = jsonStats{
		HeapSize:           h.Capacity(),
		AllocatedBlocks:    h.AllocCount(),
		FreeBlocks:         h.FreeBlockCount(),
		UsedHeapSize:       h.UsedHeapSize(),
		FreeHeapSize:       h.FreeHeapSize(),
		FragmentationRatio: round4(h.FragmentationRatio()),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(dump)
}

func round4(f float64) float64 {
	return math.Round(f*10000) / 10000
}

// SaveHeapState writes the text layout dump to the named file, opening it
// at entry and closing it on every exit path. I/O errors are reported to
// stderr; they do not change Status.
func (h *Heap) SaveHeapState(path string) {
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Unable to open file: %s for writing.\n", path)
		return
	}
	defer f.Close()

	if err := h.WriteText(f); err != nil {
		fmt.Fprintf(os.Stderr, "Error: writing heap state to %s: %v\n", path, err)
	}
}

// ExportHeapJSON writes the JSON layout and stats dump to the named file,
// opening it at entry and closing it on every exit path. I/O errors are
// reported to stderr; they do not change Status.
func (h *Heap) ExportHeapJSON(path string) {
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Unable to open file: %s for writing.\n", path)
		return
	}
	defer f.Close()

	if err := h.WriteJSON(f); err != nil {
		fmt.Fprintf(os.Stderr, "Error: writing heap JSON to %s: %v\n", path, err)
	}
}

// PrintHeap writes the text layout dump to stdout.
func (h *Heap) PrintHeap() {
	_ = h.WriteText(os.Stdout)
}
