package catalog

import (
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/Sh0ckFR/SysWhispers2/pkg/errors"
)

const (
	PresetAll    = "all"
	PresetCommon = "common"
)

var common = []string{
	"NtCreateProcess",
	"NtCreateThreadEx",
	"NtOpenProcess",
	"NtOpenProcessToken",
	"NtTestAlert",
	"NtOpenThread",
	"NtSuspendProcess",
	"NtSuspendThread",
	"NtResumeProcess",
	"NtResumeThread",
	"NtGetContextThread",
	"NtSetContextThread",
	"NtClose",
	"NtReadVirtualMemory",
	"NtWriteVirtualMemory",
	"NtAllocateVirtualMemory",
	"NtProtectVirtualMemory",
	"NtFreeVirtualMemory",
	"NtQuerySystemInformation",
	"NtQueryDirectoryFile",
	"NtQueryInformationFile",
	"NtQueryInformationProcess",
	"NtQueryInformationThread",
	"NtCreateSection",
	"NtOpenSection",
	"NtMapViewOfSection",
	"NtUnmapViewOfSection",
	"NtAdjustPrivilegesToken",
	"NtDeviceIoControlFile",
	"NtQueueApcThread",
	"NtWaitForMultipleObjects",
}

// Presets lists the preset names.
func Presets() []string {
	return []string{PresetAll, PresetCommon}
}

// Preset expands a preset to canonical function names.
func Preset(name string, c *Catalog) ([]string, error) {
	switch name {
	case PresetAll:
		return c.CanonicalNames(), nil
	case PresetCommon:
		return slices.Clone(common), nil
	}
	return nil, errors.Newf(errors.Configuration, "invalid preset %q, must be one of %v", name, Presets())
}

// ParseFunctions splits a comma-separated function list, dropping blanks
// and repeats.
func ParseFunctions(list string) []string {
	parts := lo.Map(strings.Split(list, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	})
	return lo.Uniq(lo.Compact(parts))
}
