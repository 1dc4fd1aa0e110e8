package broker

import "github.com/frecklefacelabs/golembase-images/internal/domain/dto"

type Message interface {
	ID() string
	Event() (dto.CommitEvent, error)
	Ack() error
}
