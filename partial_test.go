package stm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPartialWordReadWriteRoundTrip(t *testing.T) {
	rt := newTestRuntime()
	arena := rt.NewArena(1)
	base := arena.Addr(0)

	_, err := withTxn(t, rt, func(d *Descriptor, retry int) (any, error) {
		rt.WritePartial(d, base, 1, 0xAB)
		rt.WritePartial(d, base+1, 2, 0xBEEF)
		return nil, nil
	})
	require.NoError(t, err)

	_, err = withTxn(t, rt, func(d *Descriptor, retry int) (any, error) {
		require.EqualValues(t, 0xAB, rt.ReadPartial(d, base, 1))
		require.EqualValues(t, 0xBEEF, rt.ReadPartial(d, base+1, 2))
		return nil, nil
	})
	require.NoError(t, err)
}

func TestFloat64RoundTrip(t *testing.T) {
	rt := newTestRuntime()
	arena := rt.NewArena(1)
	addr := arena.Addr(0)

	_, err := withTxn(t, rt, func(d *Descriptor, retry int) (any, error) {
		rt.WriteFloat64(d, addr, 3.14159)
		return nil, nil
	})
	require.NoError(t, err)

	var got float64
	_, err = withTxn(t, rt, func(d *Descriptor, retry int) (any, error) {
		got = rt.ReadFloat64(d, addr)
		return nil, nil
	})
	require.NoError(t, err)
	require.InDelta(t, 3.14159, got, 1e-9)
}

func TestFloat32RoundTripUnaligned(t *testing.T) {
	rt := newTestRuntime()
	arena := rt.NewArena(1)
	addr := arena.Addr(0)

	_, err := withTxn(t, rt, func(d *Descriptor, retry int) (any, error) {
		rt.WriteFloat32(d, addr+4, 2.5)
		return nil, nil
	})
	require.NoError(t, err)

	var got float32
	_, err = withTxn(t, rt, func(d *Descriptor, retry int) (any, error) {
		got = rt.ReadFloat32(d, addr+4)
		return nil, nil
	})
	require.NoError(t, err)
	require.InDelta(t, 2.5, got, 1e-6)
}

func TestTLDictOverlaysRedoLog(t *testing.T) {
	rt := newTestRuntime()
	d := rt.SetTLS(nil)
	defer rt.DelTLS(d)

	_, err := rt.PerformTransaction(context.Background(), d, func(d *Descriptor, retry int) (any, error) {
		_, ok := rt.TLDictLookup(d, 0xF00D)
		require.False(t, ok)
		rt.TLDictAdd(d, 0xF00D, 123)
		v, ok := rt.TLDictLookup(d, 0xF00D)
		require.True(t, ok)
		require.EqualValues(t, 123, v)
		return nil, nil
	})
	require.NoError(t, err)
}
