package netmodel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rcnet/pkg/netmodel"
)

func TestNetNodesSortedByID(t *testing.T) {
	net := netmodel.NewNet("N1", "clk")
	net.AddNode(&netmodel.Node{ID: "b", Role: netmodel.RoleFree})
	net.AddNode(&netmodel.Node{ID: "a", Role: netmodel.RoleFixed})
	net.AddNode(&netmodel.Node{ID: "c", Role: netmodel.RoleSource})

	nodes := net.Nodes()
	require.Len(t, nodes, 3)
	assert.Equal(t, "a", nodes[0].ID)
	assert.Equal(t, "b", nodes[1].ID)
	assert.Equal(t, "c", nodes[2].ID)

	require.NotNil(t, net.Node("b"))
	assert.Nil(t, net.Node("missing"))
}

func TestNetElementsKeepInsertionOrder(t *testing.T) {
	net := netmodel.NewNet("N1", "clk")
	net.AddElement(&netmodel.Element{ID: "R2", NodeA: "a", NodeB: "b", Kind: netmodel.KindResistor, Value: 2})
	net.AddElement(&netmodel.Element{ID: "R1", NodeA: "b", NodeB: "c", Kind: netmodel.KindResistor, Value: 1})

	elems := net.Elements()
	require.Len(t, elems, 2)
	assert.Equal(t, "R2", elems[0].ID)
	assert.Equal(t, "R1", elems[1].ID)

	// replacing an element keeps its original position
	net.AddElement(&netmodel.Element{ID: "R2", NodeA: "a", NodeB: "b", Kind: netmodel.KindResistor, Value: 5})
	elems = net.Elements()
	require.Len(t, elems, 2)
	assert.Equal(t, "R2", elems[0].ID)
	assert.Equal(t, 5.0, elems[0].Value)
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "FIXED", netmodel.RoleFixed.String())
	assert.Equal(t, "SOURCE", netmodel.RoleSource.String())
	assert.Equal(t, "FREE", netmodel.RoleFree.String())

	assert.Equal(t, "R", netmodel.KindResistor.String())
	assert.Equal(t, "C", netmodel.KindCapacitor.String())
	assert.Equal(t, "OTHER", netmodel.KindOther.String())
}
