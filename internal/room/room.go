package room

import (
	"context"
	"math"
	"time"

	"castlerush/internal/catalog"
	"castlerush/internal/combat"
	"castlerush/internal/ids"
	"castlerush/internal/registry"
	"castlerush/internal/sink"
	"castlerush/internal/telemetry"
	"castlerush/logging"
	loggingcombat "castlerush/logging/combat"
	"castlerush/logging/lifecycle"
)

// Metric keys the room's serial goroutine reports, matching the
// string-keyed Add/Store shape every telemetry.Metrics implementation
// exposes.
const (
	metricCommandQueueDepth = "room_command_queue_depth"
	metricCommandRejected   = "room_command_rejected_total"
)

// Room is the authoritative state and single serial actor for one match.
// Every field below is owned exclusively by the goroutine started in Run;
// nothing here is safe for concurrent access from the outside, matching
// §5's "each room is a single-threaded logical actor".
type Room struct {
	id          string
	catalog     *catalog.Catalog
	sink        sink.Sink
	registry    *registry.Registry
	publisher   logging.Publisher
	metrics     telemetry.Metrics
	stageLength float64

	cmdCh chan command

	phase         Phase
	gameTimeMs    float64
	countdown     int
	speedMult     float64
	players       *playerSet
	senders       map[string]Sender
	sim           *combat.Simulator
	winnerID      string
	winReason     string
	tickCount     uint64
	createdAt     time.Time
}

// New constructs an empty Room. Run must be called to start its serial
// goroutine before any command is accepted.
func New(catalogRef *catalog.Catalog, resultSink sink.Sink, reg *registry.Registry, publisher logging.Publisher) *Room {
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	r := &Room{
		id:          ids.NewRoomID(),
		catalog:     catalogRef,
		sink:        resultSink,
		registry:    reg,
		publisher:   publisher,
		stageLength: combat.DefaultStageLength,
		cmdCh:       make(chan command, 64),
		phase:       PhaseWaiting,
		speedMult:   1,
		players:     newPlayerSet(),
		senders:     make(map[string]Sender),
		createdAt:   time.Now(),
	}
	r.sim = combat.NewSimulator(r.stageLength, nil)
	return r
}

// ID returns the room's identifier.
func (r *Room) ID() string { return r.id }

// SetMetrics attaches a telemetry sink for command-queue occupancy. Safe
// to leave unset; metrics calls below are nil-checked.
func (r *Room) SetMetrics(m telemetry.Metrics) {
	r.metrics = m
}

// Run drives the room's serial command loop until ctx is cancelled. It
// must be started exactly once, in its own goroutine, by whatever creates
// the room (the room manager).
func (r *Room) Run(ctx context.Context) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	lastTick := time.Now()

	var countdownTicker *time.Ticker
	var countdownCh <-chan time.Time

	defer func() {
		if countdownTicker != nil {
			countdownTicker.Stop()
		}
		if r.registry != nil {
			r.registry.Remove(r.id)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case cmd := <-r.cmdCh:
			r.handle(cmd)
			if r.phase == PhaseCountdown && countdownTicker == nil {
				countdownTicker = time.NewTicker(countdownPeriod)
				countdownCh = countdownTicker.C
			}
			if r.phase != PhaseCountdown && countdownTicker != nil {
				countdownTicker.Stop()
				countdownTicker = nil
				countdownCh = nil
			}

		case now := <-ticker.C:
			if r.phase != PhasePlaying {
				lastTick = now
				continue
			}
			dt := now.Sub(lastTick)
			lastTick = now
			r.stepTick(float64(dt.Milliseconds()) * r.speedMult)

		case <-countdownCh:
			r.stepCountdown()
		}
	}
}

// submit enqueues cmd and blocks for its reply, if it expects one. The
// exported command methods go through it, so callers outside the room's
// own goroutine (the transport adapter) never touch Room fields directly.
func (r *Room) submit(ctx context.Context, cmd command) (any, error) {
	select {
	case r.cmdCh <- cmd:
		if r.metrics != nil {
			r.metrics.Store(metricCommandQueueDepth, uint64(len(r.cmdCh)))
		}
	case <-ctx.Done():
		if r.metrics != nil {
			r.metrics.Add(metricCommandRejected, 1)
		}
		return nil, ctx.Err()
	}
	if cmd.reply == nil {
		return nil, nil
	}
	select {
	case result := <-cmd.reply:
		return result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Join admits a new session with the given join options, assigning it a
// side by insertion order. Rejects a third session.
func (r *Room) Join(ctx context.Context, sessionID, externalID, displayName string, deck []string, sender Sender) (playerView, error) {
	if len(deck) > maxDeckSize {
		deck = deck[:maxDeckSize]
	}
	reply := make(chan any, 1)
	result, err := r.submit(ctx, command{
		Type:     CommandJoin,
		IssuedAt: time.Now(),
		Join: &JoinPayload{
			SessionID:        sessionID,
			ExternalPlayerID: externalID,
			DisplayName:      displayName,
			Deck:             deck,
			Sender:           sender,
		},
		reply: reply,
	})
	if err != nil {
		return playerView{}, err
	}
	jr := result.(joinResult)
	return jr.View, jr.Err
}

// Ready marks sessionID as ready to start.
func (r *Room) Ready(ctx context.Context, sessionID string) error {
	return r.submitErr(ctx, command{Type: CommandReady, SessionID: sessionID, IssuedAt: time.Now()})
}

// Summon attempts to spawn unitID for sessionID.
func (r *Room) Summon(ctx context.Context, sessionID, unitID string) error {
	return r.submitErr(ctx, command{
		Type:      CommandSummon,
		SessionID: sessionID,
		IssuedAt:  time.Now(),
		Summon:    &SummonPayload{UnitID: unitID},
	})
}

// UpgradeCost attempts to upgrade sessionID's resource level.
func (r *Room) UpgradeCost(ctx context.Context, sessionID string) error {
	return r.submitErr(ctx, command{Type: CommandUpgradeCost, SessionID: sessionID, IssuedAt: time.Now()})
}

// VoteSpeed casts sessionID's vote for the optional game-speed extension.
func (r *Room) VoteSpeed(ctx context.Context, sessionID string, speed int) error {
	return r.submitErr(ctx, command{
		Type:      CommandVoteSpeed,
		SessionID: sessionID,
		IssuedAt:  time.Now(),
		VoteSpeed: &VoteSpeedPayload{Speed: speed},
	})
}

// Leave notifies the room that sessionID's transport connection closed.
// Fire-and-forget: the caller cannot act on a disconnect's outcome.
func (r *Room) Leave(sessionID string) {
	select {
	case r.cmdCh <- command{Type: CommandLeave, SessionID: sessionID, IssuedAt: time.Now()}:
	default:
	}
}

func (r *Room) submitErr(ctx context.Context, cmd command) error {
	cmd.reply = make(chan any, 1)
	result, err := r.submit(ctx, cmd)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	if cmdErr, ok := result.(error); ok {
		return cmdErr
	}
	return nil
}

// handle dispatches one command on the room's own goroutine.
func (r *Room) handle(cmd command) {
	switch cmd.Type {
	case CommandJoin:
		r.handleJoin(cmd)
	case CommandReady:
		r.handleReady(cmd)
	case CommandSummon:
		r.handleSummon(cmd)
	case CommandUpgradeCost:
		r.handleUpgradeCost(cmd)
	case CommandVoteSpeed:
		r.handleVoteSpeed(cmd)
	case CommandLeave:
		r.handleLeave(cmd)
	}
}

func (r *Room) handleJoin(cmd command) {
	payload := cmd.Join
	reply := joinResult{}
	defer func() { cmd.reply <- reply }()

	if r.players.len() >= maxPlayers {
		reply.Err = newCommandError(CodeRoomFull, "room already has two players")
		return
	}

	side := combat.SidePlayer1
	if r.players.len() == 1 {
		side = combat.SidePlayer2
	}

	deck := make([]string, 0, len(payload.Deck))
	for _, id := range payload.Deck {
		if r.catalog.IsValid(id) {
			deck = append(deck, id)
		}
	}

	player := newPlayer(payload.SessionID, payload.ExternalPlayerID, payload.DisplayName, side, deck)
	r.players.add(player)
	r.senders[payload.SessionID] = payload.Sender

	// Simulator.castles is keyed by the side the castle belongs to: an
	// attacker of side X damages castles[X.Opposite()]'s owner. Bind this
	// player's own side so the opposing attacker's resolveDamage call
	// reaches their CastleHP.
	r.sim.SetCastle(side, combat.CastleRef{
		Damage: r.castleDamageFunc(payload.SessionID),
	})

	lifecycle.PlayerJoined(context.Background(), r.publisher, r.tickCount, logging.Actor(logging.EntityKindPlayer, payload.SessionID), lifecycle.PlayerJoinedPayload{
		Side:        string(side),
		DisplayName: payload.DisplayName,
	}, nil)

	r.broadcast(playerJoinedMessage{
		Type:             "player_joined",
		SessionID:        player.SessionID,
		ExternalPlayerID: player.ExternalPlayerID,
		DisplayName:      player.DisplayName,
		Cost:             player.Cost(),
		MaxCost:          player.MaxCost(),
		CostLevel:        player.Level(),
		CastleHP:         player.CastleHP,
		MaxCastleHP:      player.MaxCastleHP,
		Ready:            player.Ready,
		Deck:             player.Deck,
	})
	r.broadcastAllPlayers()
	r.updateListing()

	reply.View = toPlayerView(player)
}

// castleDamageFunc returns a closure the Combat Simulator calls when an
// attacker hits defenderSessionID's own castle: it subtracts the damage
// from that player's CastleHP, clamped at zero.
func (r *Room) castleDamageFunc(defenderSessionID string) func(float64) {
	return func(amount float64) {
		player, ok := r.players.get(defenderSessionID)
		if !ok {
			return
		}
		player.CastleHP -= amount
		if player.CastleHP < 0 {
			player.CastleHP = 0
		}
	}
}

func (r *Room) handleReady(cmd command) {
	err := func() error {
		player, ok := r.players.get(cmd.SessionID)
		if !ok {
			return newCommandError(CodeUnknownSession, "unknown session")
		}
		if r.phase != PhaseWaiting {
			return newCommandError(CodeWrongPhase, "room is not waiting for ready")
		}
		player.Ready = true
		lifecycle.PlayerReady(context.Background(), r.publisher, r.tickCount, logging.Actor(logging.EntityKindPlayer, cmd.SessionID), lifecycle.PlayerReadyPayload{Side: string(player.Side)}, nil)

		if r.players.len() == maxPlayers && r.allReady() {
			r.enterPhase(PhaseCountdown)
			r.countdown = countdownFrom
			lifecycle.CountdownTick(context.Background(), r.publisher, r.tickCount, logging.Actor(logging.EntityKindRoom, r.id), lifecycle.CountdownTickPayload{Countdown: r.countdown}, nil)
			r.broadcast(countdownUpdateMessage{Type: "countdown_update", Countdown: r.countdown})
		}
		return nil
	}()
	r.replyErr(cmd, err)
}

func (r *Room) allReady() bool {
	for _, p := range r.players.all() {
		if !p.Ready {
			return false
		}
	}
	return true
}

func (r *Room) handleSummon(cmd command) {
	err := r.summon(cmd.SessionID, cmd.Summon.UnitID)
	r.replyErr(cmd, err)
}

func (r *Room) summon(sessionID, unitID string) error {
	if r.phase != PhasePlaying {
		return newCommandError(CodeWrongPhase, "room is not playing")
	}
	player, ok := r.players.get(sessionID)
	if !ok {
		return newCommandError(CodeUnknownSession, "unknown session")
	}
	def, ok := r.catalog.Lookup(unitID)
	if !ok {
		return newCommandError(CodeInvalidUnit, "unknown unit id")
	}
	if !player.deckContains(unitID) {
		return newCommandError(CodeUnitNotInDeck, "unit not in deck")
	}
	if remaining := player.SpawnCooldowns[unitID]; remaining > 0 {
		return newCommandError(CodeCooldown, "unit is on cooldown")
	}
	if !player.CanAfford(def.Cost) {
		return newCommandError(CodeInsufficientCost, "insufficient resource")
	}

	player.Spend(def.Cost)

	combatDef := combat.Definition{
		ID:               def.ID,
		MaxHP:            def.MaxHP,
		Speed:            def.Speed,
		AttackDamage:     def.AttackDamage,
		AttackRange:      def.AttackRange,
		AttackCooldownMs: float64(def.AttackCooldownMs),
		AttackWindupMs:   float64(def.AttackWindupMs),
		Knockback:        def.Knockback,
		IsBoss:           def.IsBoss,
		Width:            def.Width(),
	}

	instanceID := ids.NewUnitInstanceID()
	unit := r.sim.SpawnUnit(instanceID, player.Side, combatDef)
	if unit.InstanceID == "" {
		player.Refund(def.Cost)
		return newCommandError(CodeSpawnFailed, "spawn failed")
	}

	player.SpawnCooldowns[unitID] = float64(def.EffectiveSpawnCooldownMs())

	loggingcombat.UnitSpawned(context.Background(), r.publisher, r.tickCount, logging.Actor(logging.EntityKindUnit, instanceID), loggingcombat.UnitSpawnedPayload{
		DefinitionID: def.ID,
		Side:         string(player.Side),
		X:            unit.X,
	}, nil)

	r.broadcast(toUnitSpawnedMessage(unit))
	return nil
}

func (r *Room) handleUpgradeCost(cmd command) {
	err := func() error {
		player, ok := r.players.get(cmd.SessionID)
		if !ok {
			return newCommandError(CodeUnknownSession, "unknown session")
		}
		if !player.Upgrade() {
			return newCommandError(CodeCannotUpgrade, "cannot upgrade")
		}
		return nil
	}()
	r.replyErr(cmd, err)
}

func (r *Room) handleVoteSpeed(cmd command) {
	// Optional extension (§9 open question 3): a valid vote_speed from any
	// session sets speedMult to 1 or 2 immediately. Votes are not tracked
	// per session, so agreement between the two players is not checked;
	// the most recent valid vote wins.
	speed := cmd.VoteSpeed.Speed
	if speed != 1 && speed != 2 {
		r.replyErr(cmd, newCommandError(CodeInvalidUnit, "speed must be 1 or 2"))
		return
	}
	r.speedMult = float64(speed)
	r.replyErr(cmd, nil)
}

func (r *Room) handleLeave(cmd command) {
	player, ok := r.players.get(cmd.SessionID)
	if !ok {
		return
	}
	delete(r.senders, cmd.SessionID)
	r.players.remove(cmd.SessionID)

	lifecycle.PlayerDisconnected(context.Background(), r.publisher, r.tickCount, logging.Actor(logging.EntityKindPlayer, cmd.SessionID), lifecycle.PlayerDisconnectedPayload{
		Side:   string(player.Side),
		Reason: "disconnected",
	}, nil)

	if r.phase == PhaseCountdown || r.phase == PhasePlaying {
		opponent, hasOpponent := r.players.opponent(cmd.SessionID)
		winnerID := ""
		if hasOpponent {
			winnerID = opponent.SessionID
		}
		r.finish(winnerID, "opponent_disconnected")
	}
}

func (r *Room) replyErr(cmd command, err error) {
	if cmd.reply == nil {
		return
	}
	cmd.reply <- err
}

func (r *Room) enterPhase(next Phase) {
	prev := r.phase
	r.phase = next
	lifecycle.PhaseChange(context.Background(), r.publisher, r.tickCount, logging.Actor(logging.EntityKindRoom, r.id), lifecycle.PhaseChangePayload{
		From:      string(prev),
		To:        string(next),
		WinnerID:  r.winnerID,
		WinReason: r.winReason,
	}, nil)
	r.broadcast(phaseChangeMessage{
		Type:      "phase_change",
		Phase:     next,
		WinnerID:  r.winnerID,
		WinReason: r.winReason,
	})
	r.updateListing()
}

func (r *Room) stepCountdown() {
	r.countdown--
	if r.countdown > 0 {
		lifecycle.CountdownTick(context.Background(), r.publisher, r.tickCount, logging.Actor(logging.EntityKindRoom, r.id), lifecycle.CountdownTickPayload{Countdown: r.countdown}, nil)
		r.broadcast(countdownUpdateMessage{Type: "countdown_update", Countdown: r.countdown})
		return
	}
	r.enterPhase(PhasePlaying)
}

// stepTick runs one full fixed-step iteration of the playing phase:
// resource regen, cooldown decay, combat update, broadcasts, then win
// check — the fixed order from spec §5.
func (r *Room) stepTick(dtMs float64) {
	r.tickCount++
	r.gameTimeMs += dtMs

	for _, p := range r.players.all() {
		p.Update(dtMs)
		for unitID, remaining := range p.SpawnCooldowns {
			next := remaining - dtMs
			if next < 0 {
				next = 0
			}
			p.SpawnCooldowns[unitID] = next
		}
	}

	result := r.sim.Update(dtMs)
	r.applyCombatEvents(result)

	r.broadcastUnitsSync()
	r.broadcastPlayersSync()

	if winner, reason, over := r.checkWin(); over {
		r.finish(winner, reason)
	}
}

func (r *Room) applyCombatEvents(result combat.Result) {
	for _, dmg := range result.Damages {
		if !dmg.CastleHit {
			continue
		}
		player, ok := r.players.get(r.sessionForSide(dmg.CastleSide))
		if !ok {
			continue
		}
		loggingcombat.CastleDamaged(context.Background(), r.publisher, r.tickCount,
			logging.Actor(logging.EntityKindUnit, dmg.AttackerInstanceID),
			logging.Actor(logging.EntityKindCastle, player.SessionID),
			loggingcombat.CastleDamagedPayload{
				AttackerInstanceID: dmg.AttackerInstanceID,
				CastleSide:         string(dmg.CastleSide),
				Amount:             dmg.Amount,
				RemainingHP:        player.CastleHP,
			}, nil)
	}
	for _, dmg := range result.Damages {
		if dmg.Killed {
			if attacker, ok := r.players.get(r.sessionForSide(dmg.AttackerSide)); ok {
				attacker.Kills++
			}
			loggingcombat.UnitDied(context.Background(), r.publisher, r.tickCount, logging.Actor(logging.EntityKindUnit, dmg.TargetInstanceID), loggingcombat.UnitDiedPayload{
				KillerInstanceID: dmg.AttackerInstanceID,
			}, nil)
		}
	}
	for _, kb := range result.Knockbacks {
		loggingcombat.UnitKnockedBack(context.Background(), r.publisher, r.tickCount, logging.Actor(logging.EntityKindUnit, kb.InstanceID), loggingcombat.UnitKnockedBackPayload{NewX: kb.NewX}, nil)
	}
}

// sessionForSide resolves the session id owning a given lane side.
func (r *Room) sessionForSide(side combat.Side) string {
	for _, p := range r.players.all() {
		if p.Side == side {
			return p.SessionID
		}
	}
	return ""
}

func (r *Room) checkWin() (winnerID, reason string, over bool) {
	for _, p := range r.players.all() {
		if p.CastleHP <= 0 {
			if opponent, ok := r.players.opponent(p.SessionID); ok {
				return opponent.SessionID, "castle_destroyed", true
			}
			return "", "castle_destroyed", true
		}
	}
	return "", "", false
}

func (r *Room) finish(winnerID, reason string) {
	r.winnerID = winnerID
	r.winReason = reason
	r.enterPhase(PhaseFinished)

	record := r.buildRecord()
	sink.Dispatch(context.Background(), r.sink, r.publisher, record)
}

func (r *Room) buildRecord() sink.Record {
	var p1, p2 *Player
	for _, p := range r.players.all() {
		if p.Side == combat.SidePlayer1 {
			p1 = p
		} else {
			p2 = p
		}
	}
	record := sink.Record{
		BattleDuration: int(math.Floor(r.gameTimeMs / 1000)),
		WinReason:      r.winReason,
	}
	if p1 != nil {
		record.Player1ID = p1.ExternalPlayerID
		record.Player1Name = p1.DisplayName
		record.Player1Deck = p1.Deck
		record.Player1CastleHP = p1.CastleHP
		record.Player1Kills = p1.Kills
		if p1.SessionID == r.winnerID {
			record.WinnerPlayerNum = 1
		}
	}
	if p2 != nil {
		record.Player2ID = p2.ExternalPlayerID
		record.Player2Name = p2.DisplayName
		record.Player2Deck = p2.Deck
		record.Player2CastleHP = p2.CastleHP
		record.Player2Kills = p2.Kills
		if p2.SessionID == r.winnerID {
			record.WinnerPlayerNum = 2
		}
	}
	return record
}

func (r *Room) broadcast(message any) {
	for _, s := range r.senders {
		if s != nil {
			s.Send(message)
		}
	}
}

func (r *Room) broadcastAllPlayers() {
	views := make([]playerView, 0, r.players.len())
	for _, p := range r.players.all() {
		views = append(views, toPlayerView(p))
	}
	r.broadcast(allPlayersMessage{Type: "all_players", Players: views})
}

func (r *Room) broadcastUnitsSync() {
	units := r.sim.Units()
	views := make([]unitView, 0, len(units))
	for _, u := range units {
		views = append(views, toUnitView(u))
	}
	r.broadcast(unitsSyncMessage{Type: "units_sync", Units: views})
}

func (r *Room) broadcastPlayersSync() {
	views := make([]playerSyncView, 0, r.players.len())
	for _, p := range r.players.all() {
		views = append(views, toPlayerSyncView(p))
	}
	r.broadcast(playersSyncMessage{Type: "players_sync", Players: views})
}

// updateListing refreshes the registry record for this room (spec §4.F).
func (r *Room) updateListing() {
	if r.registry == nil {
		return
	}
	status := registry.Status(r.phase)
	first, hasFirst := r.players.first()

	var hostName string
	var preview []string
	if hasFirst {
		hostName = first.DisplayName
		previewLen := int(math.Ceil(float64(len(first.Deck)) / 2))
		if previewLen > len(first.Deck) {
			previewLen = len(first.Deck)
		}
		preview = append(preview, first.Deck[:previewLen]...)
	}

	r.registry.Upsert(registry.Metadata{
		RoomID:          r.id,
		Status:          status,
		HostName:        hostName,
		HostDeckPreview: preview,
		ClientCount:     r.players.len(),
		CreatedAt:       r.createdAt,
	})
}
