package transaction

import (
	"context"
	"errors"
	"fmt"

	"github.com/closeline/backend/internal/domain/identity"
	"github.com/closeline/backend/internal/domain/shared"
	"github.com/closeline/backend/internal/domain/team"
	"github.com/closeline/backend/internal/domain/transaction"
	"github.com/closeline/backend/internal/infrastructure/slack"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// maxChannelNameLength is Slack's hard limit on channel names
const maxChannelNameLength = 80

// SlackGateway is the surface of the Slack client used by transaction flows
type SlackGateway interface {
	CreateChannel(ctx context.Context, name string) (string, error)
	InviteUsers(ctx context.Context, channelID string, userIDs []string) error
	PostMessage(ctx context.Context, channelID, text string) error
	ArchiveChannel(ctx context.Context, channelID string) error
	LookupUserByEmail(ctx context.Context, email string) (string, error)
}

// ChannelProvisioner creates the Slack channel for a transaction and
// invites the agent and coordinator into it
type ChannelProvisioner struct {
	gateway         SlackGateway
	userRepo        identity.UserRepository
	coordinatorRepo team.CoordinatorRepository
	logger          *zap.Logger
}

// NewChannelProvisioner creates a new channel provisioner
func NewChannelProvisioner(
	gateway SlackGateway,
	userRepo identity.UserRepository,
	coordinatorRepo team.CoordinatorRepository,
	logger *zap.Logger,
) *ChannelProvisioner {
	return &ChannelProvisioner{
		gateway:         gateway,
		userRepo:        userRepo,
		coordinatorRepo: coordinatorRepo,
		logger:          logger,
	}
}

// Provision creates the channel, records it on the transaction, and
// invites the members. Invites are best effort; channel creation is not.
func (p *ChannelProvisioner) Provision(ctx context.Context, txn *transaction.Transaction) error {
	name := txn.ChannelName()

	channelID, err := p.gateway.CreateChannel(ctx, name)
	if errors.Is(err, slack.ErrChannelNameTaken) {
		// Extend the short id suffix to 8 hex chars and retry once
		name = extendChannelName(name, txn)
		p.logger.Info("Channel name taken, retrying with longer suffix",
			zap.String("transaction_id", txn.ID.String()),
			zap.String("name", name))
		channelID, err = p.gateway.CreateChannel(ctx, name)
	}
	if err != nil {
		return fmt.Errorf("provision channel for transaction %s: %w", txn.ID, err)
	}

	if err := txn.SetSlackChannel(channelID); err != nil {
		return err
	}

	p.inviteMembers(ctx, txn, channelID)

	return nil
}

// inviteMembers resolves the agent and coordinator Slack IDs and invites
// them. A missing workspace member does not fail provisioning.
func (p *ChannelProvisioner) inviteMembers(ctx context.Context, txn *transaction.Transaction, channelID string) {
	var userIDs []string

	if agent, err := p.userRepo.FindByID(ctx, txn.AgentUserID); err == nil {
		if slackID, err := p.gateway.LookupUserByEmail(ctx, agent.Email); err == nil {
			userIDs = append(userIDs, slackID)
		} else {
			p.logger.Warn("Agent not found in Slack workspace",
				zap.String("email", agent.Email),
				zap.Error(err))
		}
	}

	if txn.CoordinatorID != nil {
		if slackID := p.resolveCoordinator(ctx, txn); slackID != "" {
			userIDs = append(userIDs, slackID)
		}
	}

	if len(userIDs) == 0 {
		return
	}
	if err := p.gateway.InviteUsers(ctx, channelID, userIDs); err != nil {
		p.logger.Warn("Failed to invite members to channel",
			zap.String("channel_id", channelID),
			zap.Error(err))
	}
}

// resolveCoordinator returns the coordinator's Slack ID, looking it up
// by email and caching it on the coordinator when not yet resolved
func (p *ChannelProvisioner) resolveCoordinator(ctx context.Context, txn *transaction.Transaction) string {
	coordinator, err := p.coordinatorRepo.FindByIDForTenant(ctx, txn.TenantID, *txn.CoordinatorID)
	if err != nil {
		p.logger.Warn("Coordinator not found during channel provisioning",
			zap.String("coordinator_id", txn.CoordinatorID.String()))
		return ""
	}
	if coordinator.SlackUserID != "" {
		return coordinator.SlackUserID
	}

	slackID, err := p.gateway.LookupUserByEmail(ctx, coordinator.Email)
	if err != nil {
		p.logger.Warn("Coordinator not found in Slack workspace",
			zap.String("email", coordinator.Email),
			zap.Error(err))
		return ""
	}

	coordinator.SetSlackUserID(slackID)
	if err := p.coordinatorRepo.SaveWithLock(ctx, coordinator); err != nil {
		p.logger.Warn("Failed to cache coordinator Slack ID", zap.Error(err))
	}

	return slackID
}

func extendChannelName(name string, txn *transaction.Transaction) string {
	suffix := txn.ID.String()[4:8]
	if len(name)+len(suffix) > maxChannelNameLength {
		name = name[:maxChannelNameLength-len(suffix)]
	}
	return name + suffix
}

// SlackNotifier reacts to transaction milestones by provisioning the
// channel and posting updates into it
type SlackNotifier struct {
	txnRepo     transaction.Repository
	provisioner *ChannelProvisioner
	gateway     SlackGateway
	logger      *zap.Logger
}

// NewSlackNotifier creates a new Slack notifier
func NewSlackNotifier(
	txnRepo transaction.Repository,
	provisioner *ChannelProvisioner,
	gateway SlackGateway,
	logger *zap.Logger,
) *SlackNotifier {
	return &SlackNotifier{
		txnRepo:     txnRepo,
		provisioner: provisioner,
		gateway:     gateway,
		logger:      logger,
	}
}

// EventTypes returns the transaction milestones the notifier handles
func (n *SlackNotifier) EventTypes() []string {
	return []string{
		transaction.EventTypeTransactionWentUnderContract,
		transaction.EventTypeTransactionClosingDateChanged,
		transaction.EventTypeTransactionClosed,
		transaction.EventTypeTransactionCancelled,
	}
}

// Handle processes a transaction milestone event
func (n *SlackNotifier) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *transaction.TransactionWentUnderContractEvent:
		return n.handleUnderContract(ctx, e)
	case *transaction.TransactionClosingDateChangedEvent:
		return n.handleClosingDateChanged(ctx, e)
	case *transaction.TransactionClosedEvent:
		return n.handleClosed(ctx, e)
	case *transaction.TransactionCancelledEvent:
		return n.handleCancelled(ctx, e)
	}
	return nil
}

func (n *SlackNotifier) handleUnderContract(ctx context.Context, e *transaction.TransactionWentUnderContractEvent) error {
	txn, err := n.txnRepo.FindByID(ctx, e.AggregateID())
	if err != nil {
		return err
	}

	if txn.SlackChannelID == "" {
		if err := n.provisioner.Provision(ctx, txn); err != nil {
			return err
		}
		if err := n.txnRepo.SaveWithLock(ctx, txn); err != nil {
			return err
		}
	}

	text := fmt.Sprintf("%s is under contract at %s (contract date %s).",
		e.Address, formatPrice(e.ContractPrice), e.ContractDate.Format("Jan 2, 2006"))

	return n.gateway.PostMessage(ctx, txn.SlackChannelID, text)
}

func (n *SlackNotifier) handleClosingDateChanged(ctx context.Context, e *transaction.TransactionClosingDateChangedEvent) error {
	txn, err := n.txnRepo.FindByID(ctx, e.AggregateID())
	if err != nil {
		return err
	}
	if txn.SlackChannelID == "" {
		return nil
	}

	var text string
	if e.OldClosingDate != nil {
		text = fmt.Sprintf("Closing for %s moved from %s to %s.",
			e.Address,
			e.OldClosingDate.Format("Jan 2, 2006"),
			e.NewClosingDate.Format("Jan 2, 2006"))
	} else {
		text = fmt.Sprintf("Closing for %s scheduled for %s.",
			e.Address, e.NewClosingDate.Format("Jan 2, 2006"))
	}

	return n.gateway.PostMessage(ctx, txn.SlackChannelID, text)
}

func (n *SlackNotifier) handleClosed(ctx context.Context, e *transaction.TransactionClosedEvent) error {
	if e.SlackChannel == "" {
		return nil
	}

	text := fmt.Sprintf("%s has closed at %s. Congratulations! This channel will be archived.",
		e.Address, formatPrice(e.ClosePrice))
	if err := n.gateway.PostMessage(ctx, e.SlackChannel, text); err != nil {
		n.logger.Warn("Failed to post closing message", zap.Error(err))
	}

	return n.gateway.ArchiveChannel(ctx, e.SlackChannel)
}

func (n *SlackNotifier) handleCancelled(ctx context.Context, e *transaction.TransactionCancelledEvent) error {
	if e.SlackChannel == "" {
		return nil
	}

	text := fmt.Sprintf("%s was %s.", e.Address, e.FinalStatus)
	if e.Reason != "" {
		text = fmt.Sprintf("%s was %s: %s", e.Address, e.FinalStatus, e.Reason)
	}
	if err := n.gateway.PostMessage(ctx, e.SlackChannel, text); err != nil {
		n.logger.Warn("Failed to post cancellation message", zap.Error(err))
	}

	return n.gateway.ArchiveChannel(ctx, e.SlackChannel)
}

// pricePrinter groups digits per English locale conventions
var pricePrinter = message.NewPrinter(language.English)

// formatPrice renders a dollar amount with thousands separators,
// e.g. "$1,250,000"
func formatPrice(d decimal.Decimal) string {
	whole := d.Round(0).IntPart()
	if whole < 0 {
		return pricePrinter.Sprintf("-$%d", -whole)
	}
	return pricePrinter.Sprintf("$%d", whole)
}

var _ shared.EventHandler = (*SlackNotifier)(nil)

// ChannelService exposes channel provisioning as an explicit operation,
// for files that want their workspace before going under contract.
type ChannelService struct {
	txnRepo     transaction.Repository
	provisioner *ChannelProvisioner
	gateway     SlackGateway
	logger      *zap.Logger
}

// NewChannelService creates a new channel service
func NewChannelService(
	txnRepo transaction.Repository,
	provisioner *ChannelProvisioner,
	gateway SlackGateway,
	logger *zap.Logger,
) *ChannelService {
	return &ChannelService{
		txnRepo:     txnRepo,
		provisioner: provisioner,
		gateway:     gateway,
		logger:      logger,
	}
}

// Provision creates and records the Slack channel for a transaction and
// posts the kickoff message. A file that already has a channel is left
// untouched.
func (s *ChannelService) Provision(ctx context.Context, brokerageID, transactionID uuid.UUID) (*TransactionInfo, error) {
	txn, err := s.txnRepo.FindByIDForTenant(ctx, brokerageID, transactionID)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	if txn.IsTerminal() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot provision a channel for a terminal file")
	}
	if txn.SlackChannelID != "" {
		info := toTransactionInfo(txn)
		return &info, nil
	}

	if err := s.provisioner.Provision(ctx, txn); err != nil {
		s.logger.Error("Channel provisioning failed",
			zap.String("transaction_id", txn.ID.String()),
			zap.Error(err))
		return nil, shared.NewDomainError("SLACK_ERROR", "Failed to create the Slack channel")
	}
	if err := s.txnRepo.SaveWithLock(ctx, txn); err != nil {
		return nil, err
	}

	kickoff := fmt.Sprintf("New %s file: %s for %s. Updates for this transaction will be posted here.",
		txn.Side, txn.Address.Line1(), txn.Client.Name)
	if err := s.gateway.PostMessage(ctx, txn.SlackChannelID, kickoff); err != nil {
		s.logger.Warn("Failed to post kickoff message",
			zap.String("channel_id", txn.SlackChannelID),
			zap.Error(err))
	}

	info := toTransactionInfo(txn)
	return &info, nil
}
