// Package guard provides a mutex-serialized facade over pkg/heap, for
// callers that share a single Heap across goroutines.
package guard

import (
	"io"
	"sync"

	"github.com/kelsin/heapsim/internal/debug"
	"github.com/kelsin/heapsim/pkg/heap"
)

// Guarded wraps a *heap.Heap with a single exclusive lock held around every
// public operation. Locks are never nested: each method acquires g.mu once,
// calls straight through to the embedded heap, and releases before
// returning. This is the only synchronization the package adds — ordering
// and cancellation beyond mutual exclusion are the caller's problem.
type Guarded struct {
	mu sync.Mutex
	h  *heap.Heap
}

// New wraps h, which must not be accessed directly by any other goroutine
// once wrapped.
func New(h *heap.Heap) *Guarded {
	return &Guarded{h: h}
}

func (g *Guarded) lock(op string) {
	g.mu.Lock()
	debug.Log(nil, op, "acquired")
}

func (g *Guarded) unlock(op string) {
	debug.Log(nil, op, "released")
	g.mu.Unlock()
}

// Allocate serializes heap.Heap.Allocate.
func (g *Guarded) Allocate(n int) *byte {
	g.lock("allocate")
	defer g.unlock("allocate")
	return g.h.Allocate(n)
}

// Free serializes heap.Heap.Free.
func (g *Guarded) Free(p *byte) {
	g.lock("free")
	defer g.unlock("free")
	g.h.Free(p)
}

// Resize serializes heap.Heap.Resize.
func (g *Guarded) Resize(p *byte, n int) *byte {
	g.lock("resize")
	defer g.unlock("resize")
	return g.h.Resize(p, n)
}

// CheckIntegrity serializes heap.Heap.CheckIntegrity.
func (g *Guarded) CheckIntegrity() bool {
	g.lock("check_integrity")
	defer g.unlock("check_integrity")
	return g.h.CheckIntegrity()
}

// ValidatePointer serializes heap.Heap.ValidatePointer.
func (g *Guarded) ValidatePointer(p *byte) bool {
	g.lock("validate_pointer")
	defer g.unlock("validate_pointer")
	return g.h.ValidatePointer(p)
}

// Defragment serializes heap.Heap.Defragment.
func (g *Guarded) Defragment() {
	g.lock("defragment")
	defer g.unlock("defragment")
	g.h.Defragment()
}

// SetStrategy serializes heap.Heap.SetStrategy.
func (g *Guarded) SetStrategy(s heap.Strategy) {
	g.lock("set_strategy")
	defer g.unlock("set_strategy")
	g.h.SetStrategy(s)
}

// CurrentStrategy serializes heap.Heap.CurrentStrategy.
func (g *Guarded) CurrentStrategy() heap.Strategy {
	g.lock("current_strategy")
	defer g.unlock("current_strategy")
	return g.h.CurrentStrategy()
}

// LastStatus serializes heap.Heap.LastStatus. The status is read under the
// same lock every other method takes, so it is never read mid-update. The
// operation and this read are separate lock acquisitions, so another
// goroutine's operation can run in between; the status returned is then
// that operation's.
func (g *Guarded) LastStatus() heap.Status {
	g.lock("last_status")
	defer g.unlock("last_status")
	return g.h.LastStatus()
}

// AllocCount serializes heap.Heap.AllocCount.
func (g *Guarded) AllocCount() int {
	g.lock("alloc_count")
	defer g.unlock("alloc_count")
	return g.h.AllocCount()
}

// FreeBlockCount serializes heap.Heap.FreeBlockCount.
func (g *Guarded) FreeBlockCount() int {
	g.lock("free_block_count")
	defer g.unlock("free_block_count")
	return g.h.FreeBlockCount()
}

// UsedHeapSize serializes heap.Heap.UsedHeapSize.
func (g *Guarded) UsedHeapSize() int {
	g.lock("used_heap_size")
	defer g.unlock("used_heap_size")
	return g.h.UsedHeapSize()
}

// FreeHeapSize serializes heap.Heap.FreeHeapSize.
func (g *Guarded) FreeHeapSize() int {
	g.lock("free_heap_size")
	defer g.unlock("free_heap_size")
	return g.h.FreeHeapSize()
}

// FragmentationRatio serializes heap.Heap.FragmentationRatio.
func (g *Guarded) FragmentationRatio() float64 {
	g.lock("fragmentation_ratio")
	defer g.unlock("fragmentation_ratio")
	return g.h.FragmentationRatio()
}

// WriteText serializes heap.Heap.WriteText.
func (g *Guarded) WriteText(w io.Writer) error {
	g.lock("write_text")
	defer g.unlock("write_text")
	return g.h.WriteText(w)
}

// WriteJSON serializes heap.Heap.WriteJSON.
func (g *Guarded) WriteJSON(w io.Writer) error {
	g.lock("write_json")
	defer g.unlock("write_json")
	return g.h.WriteJSON(w)
}

// SaveHeapState serializes heap.Heap.SaveHeapState.
func (g *Guarded) SaveHeapState(path string) {
	g.lock("save_heap_state")
	defer g.unlock("save_heap_state")
	g.h.SaveHeapState(path)
}

// ExportHeapJSON serializes heap.Heap.ExportHeapJSON.
func (g *Guarded) ExportHeapJSON(path string) {
	g.lock("export_heap_json")
	defer g.unlock("export_heap_json")
	g.h.ExportHeapJSON(path)
}

// Reset serializes heap.Heap.Reset.
func (g *Guarded) Reset() {
	g.lock("reset")
	defer g.unlock("reset")
	g.h.Reset()
}
