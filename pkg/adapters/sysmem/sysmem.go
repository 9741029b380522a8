// Package sysmem reports system memory through gopsutil.
package sysmem

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/mem"

	"github.com/user/vrkit/pkg/ports"
)

// Info implements ports.MemoryInfo.
type Info struct{}

// New creates a new Info.
func New() *Info {
	return &Info{}
}

// Available returns the memory available for new allocations.
func (i *Info) Available() (uint64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, fmt.Errorf("read virtual memory: %w", err)
	}
	return vm.Available, nil
}

// Ensure Info implements ports.MemoryInfo
var _ ports.MemoryInfo = (*Info)(nil)
