package server

import (
	"bufio"
	"net"
	"testing"
	"time"
)

func TestSendJSONEnqueuesLine(t *testing.T) {
	srv := testServer(t)
	c, client := pipeConnection(srv, 0, false)
	defer client.Close()

	c.sendJSON(map[string]string{"hello": "world"})

	select {
	case line := <-c.send:
		if len(line) == 0 || line[len(line)-1] != '\n' {
			t.Fatal("expected the enqueued line to end with a newline")
		}
	default:
		t.Fatal("expected sendJSON to enqueue a line")
	}
}

func TestEnqueueClosesSocketWhenQueueFull(t *testing.T) {
	srv := testServer(t)
	c, client := pipeConnection(srv, 0, false)
	defer client.Close()

	for i := 0; i < outboundQueueSize; i++ {
		c.enqueue([]byte("line\n"))
	}

	client.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	buf := make([]byte, 1)
	_, err := client.Read(buf)
	netErr, ok := err.(net.Error)
	if !ok || !netErr.Timeout() {
		t.Fatalf("expected a read timeout while the queue has room, got %v", err)
	}

	c.enqueue([]byte("overflow\n"))

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, err := client.Read(buf); err == nil {
		t.Fatal("expected the socket to be closed once the outbound queue overflowed")
	}
}

func TestWritePumpFlushesQueuedLines(t *testing.T) {
	srv := testServer(t)
	c, client := pipeConnection(srv, 0, false)
	defer client.Close()

	go c.writePump()
	c.send <- []byte("hello\n")

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	reader := bufio.NewReader(client)
	line, err := reader.ReadString('\n')
	if err != nil {
		t.Fatalf("failed to read from client side: %v", err)
	}
	if line != "hello\n" {
		t.Fatalf("expected %q, got %q", "hello\n", line)
	}
	c.closeSend()
}
