package fixgateway

import (
	"errors"

	"github.com/quickfixgo/quickfix"
)

func (s *FixGateway) AddRequestToMap(clOrdID string, sessionID *quickfix.SessionID) {
	s.requestMapping.Store(clOrdID, sessionID)
}

func (s *FixGateway) GetSessionByClOrdID(clOrdID string) (*quickfix.SessionID, error) {
	var sessionID any
	var ok bool
	if sessionID, ok = s.requestMapping.Load(clOrdID); !ok {
		return nil, errors.New("clOrdID not found")
	}

	return sessionID.(*quickfix.SessionID), nil
}
