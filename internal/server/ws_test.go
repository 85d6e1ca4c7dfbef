package server

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/kinviz/kinviz/internal/world"
)

func dialTest(t *testing.T, srv *WSServer) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws://"+srv.Addr()+"/", nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWSServer_BroadcastAndReplay(t *testing.T) {
	srv := NewWSServer(zap.NewNop())
	if err := srv.Serve(0); err != nil {
		t.Fatal(err)
	}
	defer srv.StopServing()

	sk := world.NewSkeleton("arm", "models/arm.urdf", world.Vec3{}, world.Vec3{},
		world.NewJoint("elbow", world.KindRevolute, 1),
	)
	w := world.New(0.01, sk)
	w.SetPositions(world.State{0.5})

	// A snapshot published before anyone connects is replayed on connect.
	if err := srv.RenderWorld(w); err != nil {
		t.Fatal(err)
	}

	conn := dialTest(t, srv)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var msg WorldMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != MsgWorld || msg.Skeletons[0].Positions[0] != 0.5 {
		t.Errorf("replayed snapshot = %+v", msg)
	}

	// Live broadcast reaches the connected viewer.
	w.SetPositions(world.State{0.9})
	if err := srv.RenderWorld(w); err != nil {
		t.Fatal(err)
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatal(err)
	}
	if msg.Skeletons[0].Positions[0] != 0.9 {
		t.Errorf("broadcast positions = %v", msg.Skeletons[0].Positions)
	}
}

func TestWSServer_ConnectionListener(t *testing.T) {
	srv := NewWSServer(zap.NewNop())
	connected := make(chan struct{}, 1)
	srv.OnConnection(func() { connected <- struct{}{} })

	if err := srv.Serve(0); err != nil {
		t.Fatal(err)
	}
	defer srv.StopServing()

	dialTest(t, srv)

	select {
	case <-connected:
	case <-time.After(2 * time.Second):
		t.Fatal("connection listener never fired")
	}
}

func TestWSServer_StopServingIsIdempotent(t *testing.T) {
	srv := NewWSServer(zap.NewNop())
	if err := srv.Serve(0); err != nil {
		t.Fatal(err)
	}
	if err := srv.StopServing(); err != nil {
		t.Fatal(err)
	}
	if err := srv.StopServing(); err != nil {
		t.Errorf("second StopServing errored: %v", err)
	}
}

func TestWorldMessage_JSONShape(t *testing.T) {
	msg := WorldMessage{Type: MsgWorld, Dofs: 1, Skeletons: []SkeletonSnapshot{{Name: "a", Positions: []float64{1}}}}
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"type":"world"`) {
		t.Errorf("json %s missing type field", data)
	}
}
