package session

import (
	"sync"

	"VillageRaid/internal/shared/transport/ws"
)

// KickedMsg 同一玩家在别处登录时推给旧连接
const KickedMsg = "robLogin"

type Manager interface {
	Bind(pid int64, token string, conn ws.WSConn)
	UnbindConn(conn ws.WSConn)
	UnbindPlayer(pid int64)
	GetConn(pid int64) (ws.WSConn, bool)
	GetPlayer(conn ws.WSConn) (int64, bool)
}

type SessMgr struct {
	sync.RWMutex
	pid2token map[int64]string
	pid2conn  map[int64]ws.WSConn
	conn2pid  map[ws.WSConn]int64
	watched   map[ws.WSConn]struct{}
}

func NewSessMgr() *SessMgr {
	return &SessMgr{
		pid2token: make(map[int64]string),
		pid2conn:  make(map[int64]ws.WSConn),
		conn2pid:  make(map[ws.WSConn]int64),
		watched:   make(map[ws.WSConn]struct{}),
	}
}

func (s *SessMgr) Bind(pid int64, token string, conn ws.WSConn) {
	if conn == nil {
		return
	}
	s.Lock()
	defer s.Unlock()

	// 每条连接只启动一次 watcher，连接关闭后自动解绑
	if _, ok := s.watched[conn]; !ok {
		s.watched[conn] = struct{}{}
		go s.watchConnDone(conn)
	}

	// 踢掉旧连接
	if old := s.pid2conn[pid]; old != nil && old != conn {
		delete(s.conn2pid, old)
		old.Push(KickedMsg, nil)
		old.Close()
	}
	s.pid2conn[pid] = conn
	s.conn2pid[conn] = pid
	s.pid2token[pid] = token
}

func (s *SessMgr) watchConnDone(conn ws.WSConn) {
	<-conn.Done()
	s.UnbindConn(conn)
}

func (s *SessMgr) UnbindConn(conn ws.WSConn) {
	s.Lock()
	defer s.Unlock()
	delete(s.watched, conn)
	pid, ok := s.conn2pid[conn]
	if !ok {
		return
	}
	delete(s.conn2pid, conn)
	if s.pid2conn[pid] == conn {
		delete(s.pid2conn, pid)
		delete(s.pid2token, pid)
	}
}

func (s *SessMgr) UnbindPlayer(pid int64) {
	s.Lock()
	defer s.Unlock()
	if conn, ok := s.pid2conn[pid]; ok {
		delete(s.conn2pid, conn)
	}
	delete(s.pid2conn, pid)
	delete(s.pid2token, pid)
}

func (s *SessMgr) GetConn(pid int64) (ws.WSConn, bool) {
	s.RLock()
	defer s.RUnlock()
	conn, ok := s.pid2conn[pid]
	return conn, ok
}

func (s *SessMgr) GetPlayer(conn ws.WSConn) (int64, bool) {
	s.RLock()
	defer s.RUnlock()
	pid, ok := s.conn2pid[conn]
	return pid, ok
}

var _ Manager = (*SessMgr)(nil)
