package server

import (
	"bufio"
	"encoding/json"
	"errors"
	"log"
	"net"
	"strings"

	"github.com/gridlock-games/bomberman-server/internal/game"
	"github.com/gridlock-games/bomberman-server/internal/metrics"
)

// joinRequest is the first line a client may send to propose an
// identity. An empty line means "assign me a name" (spec §4.7/§9); a
// non-empty line that is not a JSON object with a name is used verbatim
// as the proposed name.
type joinRequest struct {
	Name string `json:"name"`
}

// acceptLoop accepts raw TCP connections and admits each one in turn.
// Admission is synchronous from the caller's perspective but is
// actually resolved by the tick driver goroutine, preserving the
// single-writer rule even during the handshake.
func (srv *Server) acceptLoop() {
	for {
		conn, err := srv.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			log.Printf("accept: %v", err)
			continue
		}
		go srv.admitConnection(conn)
	}
}

func (srv *Server) admitConnection(conn net.Conn) {
	reader := bufio.NewReader(conn)
	name := readProposedName(reader)

	type result struct {
		res *game.AdmissionResult
		err *game.AdmitError
	}
	reply := make(chan result, 1)

	srv.post(func(s *game.State) {
		if name == "" {
			name = GenerateUniqueName(s.NameTaken)
		}
		res, admitErr := s.Admit(name)
		reply <- result{res, admitErr}
	})

	out := <-reply
	if out.err != nil {
		metrics.AdmissionRejectedTotal.WithLabelValues(out.err.Kind).Inc()
		data, _ := json.Marshal(errorReply{Error: out.err.Kind, Details: out.err.Details})
		conn.Write(append(data, '\n'))
		conn.Close()
		return
	}

	id := srv.nextConnID()
	c := newConnection(id, conn, srv, out.res.PlayerID, out.res.IsSpectator, out.res.Name)
	c.reader = reader
	srv.registerConnection(c)

	c.sendJSON(admissionReply{
		JoinSuccess: true,
		PlayerID:    out.res.PlayerID,
		IsSpectator: out.res.IsSpectator,
		PlayerName:  out.res.Name,
	})

	if out.res.IsSpectator {
		metrics.ConnectedSpectators.Inc()
	} else {
		metrics.ConnectedPlayers.Inc()
	}

	go c.writePump()
	c.readPump()
}

// readProposedName reads exactly one line before the admission
// handshake completes, leaving anything buffered beyond it for the
// connection's subsequent readPump. A transport error or an empty line
// is treated as "no name proposed".
func readProposedName(reader *bufio.Reader) string {
	raw, err := reader.ReadString('\n')
	if err != nil && raw == "" {
		return ""
	}
	line := strings.TrimSpace(raw)
	if line == "" {
		return ""
	}

	var req joinRequest
	if err := json.Unmarshal([]byte(line), &req); err == nil && req.Name != "" {
		return req.Name
	}
	return line
}
