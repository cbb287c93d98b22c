package abi

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/treb-create2/internal/domain"
	"github.com/trebuchet-org/treb-create2/internal/usecase"
)

// EventDecoder decodes receipt logs against the target contract's ABI, or an
// ABI found by the resolver for any other emitter
type EventDecoder struct {
	abiResolver usecase.ABIResolver
	log         *slog.Logger
}

// NewEventDecoder creates a new event decoder
func NewEventDecoder(abiResolver usecase.ABIResolver, log *slog.Logger) *EventDecoder {
	return &EventDecoder{
		abiResolver: abiResolver,
		log:         log.With("component", "EventDecoder"),
	}
}

// DecodeLogs decodes every log it can. Logs without a matching event keep
// their address and first topic with an empty name.
func (e *EventDecoder) DecodeLogs(ctx context.Context, contractABI *abi.ABI, emitter common.Address, logs []*types.Log) []domain.DecodedEvent {
	if len(logs) == 0 {
		return nil
	}

	cache := map[common.Address]*abi.ABI{}
	if contractABI != nil {
		cache[emitter] = contractABI
	}

	events := make([]domain.DecodedEvent, 0, len(logs))
	for _, log := range logs {
		if log == nil {
			continue
		}
		event := domain.DecodedEvent{Address: log.Address}
		if len(log.Topics) > 0 {
			event.Topic = log.Topics[0]
		}

		logABI, ok := cache[log.Address]
		if !ok && e.abiResolver != nil {
			resolved, err := e.abiResolver.FindByAddress(ctx, log.Address)
			if err != nil {
				e.log.Debug("no ABI for log emitter", "address", log.Address.Hex(), "error", err)
			}
			cache[log.Address] = resolved
			logABI = resolved
		}

		if logABI != nil {
			if err := e.decodeRawLog(&event, log, logABI); err != nil {
				e.log.Debug("failed to decode log", "address", log.Address.Hex(), "topic", event.Topic.Hex(), "error", err)
			}
		}
		events = append(events, event)
	}
	return events
}

func (e *EventDecoder) decodeRawLog(event *domain.DecodedEvent, log *types.Log, contractABI *abi.ABI) error {
	// Anonymous events have no signature topic
	if len(log.Topics) == 0 {
		return nil
	}

	abiEvent, err := contractABI.EventByID(log.Topics[0])
	if err != nil {
		return nil
	}

	decodedParams := make(map[string]any)

	var indexedInputs, nonIndexedInputs abi.Arguments
	for _, input := range abiEvent.Inputs {
		if input.Indexed {
			indexedInputs = append(indexedInputs, input)
		} else {
			nonIndexedInputs = append(nonIndexedInputs, input)
		}
	}

	if len(indexedInputs) > 0 {
		if err := abi.ParseTopicsIntoMap(decodedParams, indexedInputs, log.Topics[1:]); err != nil {
			return fmt.Errorf("failed to parse topics: %w", err)
		}
	}

	if len(nonIndexedInputs) > 0 && len(log.Data) > 0 {
		values, err := nonIndexedInputs.Unpack(log.Data)
		if err != nil {
			return fmt.Errorf("failed to unpack event data: %w", err)
		}
		for i, input := range nonIndexedInputs {
			if i < len(values) {
				decodedParams[input.Name] = values[i]
			}
		}
	}

	params := make([]domain.EventParam, 0, len(abiEvent.Inputs))
	for _, input := range abiEvent.Inputs {
		val, ok := decodedParams[input.Name]
		if !ok {
			continue
		}
		params = append(params, domain.EventParam{
			Name:  input.Name,
			Type:  input.Type.String(),
			Value: FormatValue(val),
		})
	}

	event.Name = abiEvent.RawName
	event.Signature = abiEvent.Sig
	event.Params = params
	return nil
}

var _ usecase.EventDecoder = (*EventDecoder)(nil)
