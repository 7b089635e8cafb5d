package gateway

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAuthority serves the real four routes in-process with scripted
// responses, so the client is exercised over actual HTTP.
type fakeAuthority struct {
	mu           sync.Mutex
	tokens       map[string]int
	nextSeat     int
	state        State
	updates      []string
	commands     []string
	commandReply map[string]string
	revoked      bool
}

func newFakeAuthority() *fakeAuthority {
	return &fakeAuthority{
		tokens:       make(map[string]int),
		commandReply: make(map[string]string),
	}
}

func (f *fakeAuthority) authorized(token string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.revoked {
		return false
	}
	_, ok := f.tokens[token]
	return ok
}

func (f *fakeAuthority) router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
	}))

	r.POST("/join", func(c *gin.Context) {
		var req JoinRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
		f.mu.Lock()
		f.nextSeat++
		if f.nextSeat > 4 {
			f.mu.Unlock()
			c.JSON(http.StatusConflict, gin.H{"detail": "Table is full."})
			return
		}
		token := uuid.New().String()
		f.tokens[token] = f.nextSeat
		seat := f.nextSeat
		f.mu.Unlock()
		c.JSON(http.StatusOK, JoinResponse{Token: token, PlayerID: seat, Message: "Joined successfully."})
	})

	r.GET("/updates", func(c *gin.Context) {
		if !f.authorized(c.Query("token")) {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid or expired token."})
			return
		}
		f.mu.Lock()
		msg := "No new updates."
		if len(f.updates) > 0 {
			msg = f.updates[0]
			f.updates = f.updates[1:]
		}
		f.mu.Unlock()
		c.JSON(http.StatusOK, UpdatesResponse{Message: msg})
	})

	r.GET("/state", func(c *gin.Context) {
		if !f.authorized(c.Query("token")) {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid or expired token."})
			return
		}
		f.mu.Lock()
		st := f.state
		f.mu.Unlock()
		c.JSON(http.StatusOK, st)
	})

	r.POST("/command", func(c *gin.Context) {
		var req CommandRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
		if !f.authorized(req.Token) {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid or expired token."})
			return
		}
		if req.Command == "" {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Command may not be empty."})
			return
		}
		f.mu.Lock()
		f.commands = append(f.commands, req.Command)
		reply := f.commandReply[req.Command]
		f.mu.Unlock()
		c.JSON(http.StatusOK, CommandResponse{Message: reply})
	})

	return r
}

func startFake(t *testing.T) (*fakeAuthority, *Client) {
	t.Helper()
	f := newFakeAuthority()
	srv := httptest.NewServer(f.router())
	t.Cleanup(srv.Close)

	host, portStr, err := net.SplitHostPort(srv.Listener.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return f, NewClient(host, port)
}

func Test_JoinEstablishesSession(t *testing.T) {
	f, client := startFake(t)
	sess, err := client.Join(context.Background(), "Hanus")
	require.NoError(t, err)
	assert.Equal(t, 1, sess.Seat)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, "Joined successfully.", sess.Message)
	assert.True(t, f.authorized(sess.Token))
}

func Test_UpdatesSentinelFiltered(t *testing.T) {
	f, client := startFake(t)
	_, err := client.Join(context.Background(), "Hanus")
	require.NoError(t, err)

	msg, err := client.Updates(context.Background())
	require.NoError(t, err)
	assert.Empty(t, msg)

	f.mu.Lock()
	f.updates = append(f.updates, "Round started.")
	f.mu.Unlock()

	msg, err = client.Updates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Round started.", msg)
}

func Test_StateRoundTrip(t *testing.T) {
	f, client := startFake(t)
	_, err := client.Join(context.Background(), "Hanus")
	require.NoError(t, err)

	f.mu.Lock()
	f.state = State{
		Scoreboard:  map[string]int{"Vit": 24, "Tit": 18},
		CurrentTurn: 2,
		Trump:       "H",
		Phase:       "trick",
		Players: []Player{
			{ID: 1, Name: "Hanus", Ping: 0.2, OK: true},
			{ID: 2, Name: "Ranker", Ping: 1.4, OK: false},
		},
		TableCards: []string{"AS"},
		Hand:       []string{"KH", "7C"},
		TableSlots: []SlotCard{{ID: 1, Name: "Hanus", Card: "AS"}},
		LastWinner: 1,
	}
	f.mu.Unlock()

	st, err := client.State(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "trick", st.Phase)
	assert.Equal(t, "H", st.Trump)
	assert.Equal(t, 2, st.CurrentTurn)
	assert.Equal(t, 24, st.Scoreboard["Vit"])
	assert.Len(t, st.Players, 2)
	assert.False(t, st.Players[1].OK)
	assert.Equal(t, []SlotCard{{ID: 1, Name: "Hanus", Card: "AS"}}, st.TableSlots)
}

func Test_CommandCarriesTokenAndReply(t *testing.T) {
	f, client := startFake(t)
	_, err := client.Join(context.Background(), "Hanus")
	require.NoError(t, err)

	f.mu.Lock()
	f.commandReply["maxmeld"] = "6CD"
	f.mu.Unlock()

	reply, err := client.Command(context.Background(), "maxmeld")
	require.NoError(t, err)
	assert.Equal(t, "6CD", reply)

	reply, err = client.Command(context.Background(), "P AS")
	require.NoError(t, err)
	assert.Empty(t, reply)

	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Equal(t, []string{"maxmeld", "P AS"}, f.commands)
}

func Test_RevokedTokenIsUnauthorized(t *testing.T) {
	f, client := startFake(t)
	_, err := client.Join(context.Background(), "Hanus")
	require.NoError(t, err)

	f.mu.Lock()
	f.revoked = true
	f.mu.Unlock()

	_, err = client.Updates(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = client.State(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = client.Command(context.Background(), "show")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func Test_RejectionDetailSurfaced(t *testing.T) {
	_, client := startFake(t)

	// Joining five times overflows the table; the detail text must come
	// through in the error.
	for i := 0; i < 4; i++ {
		_, err := client.Join(context.Background(), "Guest")
		require.NoError(t, err)
	}
	_, err := client.Join(context.Background(), "Guest")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Table is full.")
}
