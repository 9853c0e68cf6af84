package resolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sh0ckFR/SysWhispers2/pkg/errors"
	"github.com/Sh0ckFR/SysWhispers2/pkg/obf"
)

var ntdllExports = []Export{
	{Name: "NtClose", VirtualAddress: 0x300, Ordinal: 1},
	{Name: "ZwClose", VirtualAddress: 0x300, Ordinal: 2},
	{Name: "ZwOpenProcess", VirtualAddress: 0x100, Ordinal: 3},
	{Name: "ZwTestAlert", VirtualAddress: 0x200, Ordinal: 4},
	{Name: "RtlGetVersion", VirtualAddress: 0x400, Ordinal: 5},
}

func TestSyscallExports(t *testing.T) {
	zw := SyscallExports(ntdllExports)
	names := make([]string, len(zw))
	for i, e := range zw {
		names[i] = e.Name
	}
	assert.Equal(t, []string{"ZwOpenProcess", "ZwTestAlert", "ZwClose"}, names)
}

func TestCheckExports(t *testing.T) {
	table := obf.NewTable(obf.Hasher{Seed: 0x12345678, Prefix: "Sw2"})
	_, err := table.Add("Sw2Close")
	require.NoError(t, err)
	_, err = table.Add("Sw2TestAlert")
	require.NoError(t, err)

	assert.NoError(t, CheckExports(table, ntdllExports))
}

func TestCheckExportsMissing(t *testing.T) {
	table := obf.NewTable(obf.Hasher{Seed: 0x12345678})
	_, err := table.Add("NtClose")
	require.NoError(t, err)
	_, err = table.Add("NtCreateThreadEx")
	require.NoError(t, err)

	err = CheckExports(table, ntdllExports)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.UnknownExport))
	assert.Contains(t, err.Error(), "ZwCreateThreadEx")
}

func TestCheckExportsCollision(t *testing.T) {
	table := obf.NewTable(obf.Hasher{Seed: 0x12345678})
	_, err := table.Add("NtProbe7539")
	require.NoError(t, err)

	exports := append([]Export{
		{Name: "ZwProbe7539", VirtualAddress: 0x500},
		{Name: "ZwProbe16899", VirtualAddress: 0x600},
	}, ntdllExports...)

	err = CheckExports(table, exports)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.HashCollision))
	assert.Contains(t, err.Error(), "ZwProbe16899")
}

func TestExportsNotPE(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ntdll.dll")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a PE image"), 0644))

	_, err := Exports(path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.IO))

	_, err = Exports(filepath.Join(t.TempDir(), "missing.dll"))
	assert.True(t, errors.IsCode(err, errors.IO))
}
