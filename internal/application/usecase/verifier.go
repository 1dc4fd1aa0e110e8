package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/dezh-tech/immortal/pkg/logger"

	"github.com/frecklefacelabs/golembase-images/internal/domain/dto"
	"github.com/frecklefacelabs/golembase-images/internal/domain/repository/broker"
	"github.com/frecklefacelabs/golembase-images/internal/domain/repository/entitystore"
)

var ErrEventMismatch = errors.New("stored object does not match commit event")

// Verifier consumes commit events and checks that each announced object
// reconstructs to the advertised size and hash and has exactly one
// thumbnail.
type Verifier struct {
	reader   *Reader
	receiver broker.Receiver
}

func NewVerifier(reader *Reader, receiver broker.Receiver) *Verifier {
	return &Verifier{
		reader:   reader,
		receiver: receiver,
	}
}

// Run processes events until ctx is done or the receiver closes its channel.
func (v *Verifier) Run(ctx context.Context, consumerName string) error {
	messages, err := v.receiver.Messages(ctx, consumerName)
	if err != nil {
		return err
	}

	for msg := range messages {
		v.handle(ctx, msg)
	}

	return ctx.Err()
}

func (v *Verifier) handle(ctx context.Context, msg broker.Message) {
	event, err := msg.Event()
	if err != nil {
		logger.Error("dropping undecodable commit event", "id", msg.ID(), "err", err)
		v.ack(msg)

		return
	}

	err = v.Verify(ctx, event)
	switch {
	case err == nil:
		logger.Info("object verified", "root", event.RootKey, "part_of", event.PartOf, "size", event.Size)
	case isIntegrityFailure(err):
		logger.Error("object failed verification", "root", event.RootKey, "err", err)
	default:
		// left pending for redelivery
		logger.Error("could not verify object", "root", event.RootKey, "err", err)

		return
	}

	v.ack(msg)
}

func (v *Verifier) ack(msg broker.Message) {
	if err := msg.Ack(); err != nil {
		logger.Error("failed to ack commit event", "id", msg.ID(), "err", err)
	}
}

// Verify reconstructs the object named by event and compares it with the
// event's claims.
func (v *Verifier) Verify(ctx context.Context, event dto.CommitEvent) error {
	obj, err := v.reader.Read(ctx, event.RootKey)
	if err != nil {
		return err
	}

	if obj.PartOf != event.PartOf {
		return fmt.Errorf("%w: part-of %d, event says %d", ErrEventMismatch, obj.PartOf, event.PartOf)
	}
	if len(obj.Data) != event.Size {
		return fmt.Errorf("%w: size %d, event says %d", ErrEventMismatch, len(obj.Data), event.Size)
	}
	if event.ContentHash != "" && contentHash(obj.Data) != event.ContentHash {
		return fmt.Errorf("%w: content hash", ErrEventMismatch)
	}

	thumbs, err := v.reader.Thumbnails(ctx, obj.Key)
	if err != nil {
		return err
	}
	if len(thumbs) != 1 {
		return fmt.Errorf("%w: %d thumbnails", ErrEventMismatch, len(thumbs))
	}
	if event.ThumbnailKey != "" && thumbs[0] != event.ThumbnailKey {
		return fmt.Errorf("%w: thumbnail %s, event says %s", ErrEventMismatch, thumbs[0], event.ThumbnailKey)
	}

	return nil
}

func isIntegrityFailure(err error) bool {
	var reconstruction *ReconstructionError

	return errors.As(err, &reconstruction) ||
		errors.Is(err, ErrEventMismatch) ||
		errors.Is(err, ErrNotAnImage) ||
		errors.Is(err, entitystore.ErrNotFound)
}
