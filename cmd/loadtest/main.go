// Command loadtest opens many concurrent client connections against a
// running server and drives each with random movement keystrokes, to
// exercise the broadcast and transport paths under concurrent load.
//
// Dials gobwas/ws (this server's transport) and drives each connection with
// the ASCII "KEY <ch>" lines this protocol speaks.
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
)

var movementKeys = []byte{'h', 'l', 'j', 'k', 'y', 'u', 'b', 'n'}

func main() {
	serverURL := "ws://localhost:8108/ws"
	numClients := 1000
	duration := 30 * time.Second

	log.Printf("starting load test: %d clients for %v", numClients, duration)

	ctx, cancel := context.WithTimeout(context.Background(), duration)
	defer cancel()

	var wg sync.WaitGroup
	var connected, errored, messages int64

	for i := 0; i < numClients; i++ {
		wg.Add(1)
		go func(clientID int) {
			defer wg.Done()
			if err := runClient(ctx, serverURL, clientID, &connected, &messages); err != nil {
				atomic.AddInt64(&errored, 1)
				log.Printf("client %d error: %v", clientID, err)
			}
		}(i)

		if i%50 == 0 {
			time.Sleep(10 * time.Millisecond)
		}
	}

	go func() {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				log.Printf("connected: %d, errors: %d, messages: %d",
					atomic.LoadInt64(&connected), atomic.LoadInt64(&errored), atomic.LoadInt64(&messages))
			}
		}
	}()

	wg.Wait()
	log.Printf("load test completed: %d connections, %d errors", atomic.LoadInt64(&connected), atomic.LoadInt64(&errored))
}

func runClient(ctx context.Context, serverURL string, clientID int, connected, messages *int64) error {
	conn, _, _, err := ws.DefaultDialer.Dial(ctx, serverURL)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	atomic.AddInt64(connected, 1)

	name := fmt.Sprintf("load%d", clientID)
	if err := wsutil.WriteClientMessage(conn, ws.OpText, []byte("PLAY "+name)); err != nil {
		return fmt.Errorf("join: %w", err)
	}

	go func() {
		for {
			if _, _, err := wsutil.ReadServerData(conn); err != nil {
				return
			}
			atomic.AddInt64(messages, 1)
		}
	}()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	rng := rand.New(rand.NewSource(int64(clientID)))
	for {
		select {
		case <-ctx.Done():
			_ = wsutil.WriteClientMessage(conn, ws.OpText, []byte("KEY Q"))
			return nil
		case <-ticker.C:
			ch := movementKeys[rng.Intn(len(movementKeys))]
			if err := wsutil.WriteClientMessage(conn, ws.OpText, []byte{'K', 'E', 'Y', ' ', ch}); err != nil {
				return fmt.Errorf("write: %w", err)
			}
		}
	}
}
