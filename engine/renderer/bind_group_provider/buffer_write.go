package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BufferWrite is one pending upload into a provider's buffer.
type BufferWrite struct {
	// Provider holds the destination buffer.
	Provider BindGroupProvider
	// Binding selects the buffer within the provider.
	Binding int
	// Offset is the byte offset into the buffer.
	Offset uint64
	// Data is the bytes to upload.
	Data []byte
}

// WriteBuffers uploads every write whose provider has a buffer at the binding.
// Writes with no destination buffer or no data are skipped.
//
// Parameters:
//   - queue: the device queue
//   - writes: the uploads
//
// Returns:
//   - int: the number of writes issued
func WriteBuffers(queue *wgpu.Queue, writes []BufferWrite) int {
	n := 0
	for _, w := range writes {
		if w.Provider == nil || len(w.Data) == 0 {
			continue
		}
		buf := w.Provider.Buffer(w.Binding)
		if buf == nil {
			continue
		}
		queue.WriteBuffer(buf, w.Offset, w.Data)
		n++
	}
	return n
}
