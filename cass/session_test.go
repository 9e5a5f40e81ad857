package cass

import (
	"fmt"
	"net"
	"testing"
	"time"

	"keybench/bench"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func native(t gocql.Type) gocql.TypeInfo {
	return gocql.NewNativeType(4, t, "")
}

func marshal(t *testing.T, info gocql.TypeInfo, v any) []byte {
	t.Helper()
	data, err := gocql.Marshal(info, v)
	require.NoError(t, err)
	return data
}

func TestDecodeScalars(t *testing.T) {
	u := gocql.TimeUUID()
	ts := time.UnixMilli(1700000000123)
	cases := []struct {
		name string
		info gocql.TypeInfo
		in   any
		want bench.ColumnValue
	}{
		{"varchar", native(gocql.TypeVarchar), "abc", bench.Text("abc")},
		{"bigint", native(gocql.TypeBigInt), int64(-5), bench.BigInt(-5)},
		{"counter", native(gocql.TypeCounter), int64(9), bench.BigInt(9)},
		{"timestamp", native(gocql.TypeTimestamp), ts, bench.Timestamp(1700000000123)},
		{"int", native(gocql.TypeInt), int32(17), bench.Int(17)},
		{"float", native(gocql.TypeFloat), float32(1.25), bench.Float(1.25)},
		{"double", native(gocql.TypeDouble), 2.5, bench.Double(2.5)},
		{"boolean", native(gocql.TypeBoolean), true, bench.Bool(true)},
		{"timeuuid", native(gocql.TypeTimeUUID), u, bench.UUID(u)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Decode(tc.info, marshal(t, tc.info, tc.in), false)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDecodeInet(t *testing.T) {
	info := native(gocql.TypeInet)
	got := Decode(info, marshal(t, info, net.ParseIP("192.168.1.10")), false)
	dec := bench.NewDecoder(bench.DecoderConfig{})
	assert.Equal(t, "192.168.1.10", string(dec.Render(got)))
}

func TestDecodeCollectionsAreRawBytes(t *testing.T) {
	info := gocql.CollectionType{NativeType: gocql.NewNativeType(4, gocql.TypeList, ""), Elem: native(gocql.TypeInt)}
	data := marshal(t, info, []int32{1, 2, 3})
	assert.Equal(t, bench.Bytes(data), Decode(info, data, false))

	blob := []byte{0xde, 0xad}
	assert.Equal(t, bench.Bytes(blob), Decode(native(gocql.TypeBlob), blob, false))
}

func TestDecodeNullAndUnknown(t *testing.T) {
	assert.Equal(t, bench.Null{}, Decode(native(gocql.TypeInt), nil, true))
	assert.IsType(t, bench.Unsupported{}, Decode(native(gocql.TypeDuration), []byte{1}, false))
}

func TestRawCellCopies(t *testing.T) {
	var c rawCell
	src := []byte("abc")
	require.NoError(t, c.UnmarshalCQL(native(gocql.TypeText), src))
	src[0] = 'x'
	assert.Equal(t, []byte("abc"), c.data)
	assert.False(t, c.null)

	require.NoError(t, c.UnmarshalCQL(native(gocql.TypeText), nil))
	assert.True(t, c.null)
}

func TestClusterConfig(t *testing.T) {
	cluster, err := ClusterConfig(bench.ConnConfig{
		Hosts:       []string{"10.0.0.1", "10.0.0.2"},
		Port:        9043,
		Database:    "ks",
		Consistency: "LOCAL_QUORUM",
		Timeout:     3 * time.Second,
		User:        "u",
		Password:    "p",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cluster.Hosts)
	assert.Equal(t, 9043, cluster.Port)
	assert.Equal(t, "ks", cluster.Keyspace)
	assert.Equal(t, gocql.LocalQuorum, cluster.Consistency)
	assert.Equal(t, 3*time.Second, cluster.Timeout)
	assert.Equal(t, 1, cluster.NumConns)
	assert.Equal(t, gocql.PasswordAuthenticator{Username: "u", Password: "p"}, cluster.Authenticator)

	_, err = ClusterConfig(bench.ConnConfig{})
	assert.Error(t, err)

	_, err = ClusterConfig(bench.ConnConfig{Hosts: []string{"h"}, Consistency: "SOMETIMES"})
	assert.Error(t, err)
}

type fakeRequestError struct{ code int }

func (e fakeRequestError) Code() int       { return e.code }
func (e fakeRequestError) Message() string { return "unavailable" }
func (e fakeRequestError) Error() string   { return fmt.Sprintf("code %d", e.code) }

func TestClassify(t *testing.T) {
	qe := Classify(fmt.Errorf("exec: %w", fakeRequestError{code: 0x1000}))
	require.NotNil(t, qe)
	assert.Equal(t, "0x1000", qe.Code)
	assert.Equal(t, "unavailable", qe.Message)

	assert.Nil(t, Classify(fmt.Errorf("plain")))
}
