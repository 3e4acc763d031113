package signal

import "github.com/dkeye/Webinar/internal/protocol"

func (ctl *SignalWSController) handlePing(conn *WsSignalConn) {
	ctl.sendEvent(conn, protocol.TypePong, nil)
}
