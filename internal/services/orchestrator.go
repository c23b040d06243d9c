package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/temcen/laptop-advisor/internal/cache"
	"github.com/temcen/laptop-advisor/internal/catalog"
	"github.com/temcen/laptop-advisor/internal/extraction"
	"github.com/temcen/laptop-advisor/internal/llm"
	"github.com/temcen/laptop-advisor/internal/session"
	"github.com/temcen/laptop-advisor/pkg/models"
)

// OrchestratorConfig tunes the conversation flow.
type OrchestratorConfig struct {
	Convergence ConvergenceThresholds
	// NarrowingThreshold is the candidate count above which a narrowing
	// question is asked instead of showing results.
	NarrowingThreshold int
	SampleSize         int
	LLMTimeout         time.Duration
	CatalogTimeout     time.Duration
}

func DefaultOrchestratorConfig() OrchestratorConfig {
	return OrchestratorConfig{
		Convergence:        DefaultConvergenceThresholds(),
		NarrowingThreshold: 50,
		SampleSize:         5,
		LLMTimeout:         15 * time.Second,
		CatalogTimeout:     5 * time.Second,
	}
}

// ConversationOrchestrator drives one conversational turn at a time.
type ConversationOrchestrator struct {
	sessions  session.Store
	extractor *extraction.Extractor
	completer llm.Completer
	engine    *RecommendationEngine
	catalog   catalog.Querier
	cache     *cache.ResponseCache
	config    OrchestratorConfig
	metrics   *Metrics
	logger    *logrus.Logger
	now       func() time.Time
	newID     func() string
}

// NewConversationOrchestrator wires the turn pipeline. completer and
// catalog may be nil: turns then use the static fallback reply and an
// empty prompt sample.
func NewConversationOrchestrator(
	sessions session.Store,
	extractor *extraction.Extractor,
	completer llm.Completer,
	engine *RecommendationEngine,
	catalog catalog.Querier,
	responseCache *cache.ResponseCache,
	config OrchestratorConfig,
	metrics *Metrics,
	logger *logrus.Logger,
) *ConversationOrchestrator {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &ConversationOrchestrator{
		sessions:  sessions,
		extractor: extractor,
		completer: completer,
		engine:    engine,
		catalog:   catalog,
		cache:     responseCache,
		config:    config,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
}

// draft is the model's proposal for a turn, or the static fallback.
type draft struct {
	response       string
	phase          models.Phase
	affordances    []models.Affordance
	databaseFilter *models.CatalogFilter
	degraded       bool
}

// ProcessTurn handles one utterance. It always returns a response;
// collaborator failures degrade the reply instead of surfacing as errors.
func (o *ConversationOrchestrator) ProcessTurn(ctx context.Context, req models.TurnRequest) *models.TurnResponse {
	start := time.Now()
	sess, isNew := o.loadSession(ctx, req)
	cleaned := cleanUtterance(req.Message)

	log := o.logger.WithFields(logrus.Fields{
		"session_id": sess.ID,
		"user_id":    sess.UserID,
		"turn":       sess.TurnCount,
	})

	affirmation := isAffirmation(cleaned)
	delta := o.extractor.Extract(req.Message, sess.Preferences)
	if isSmallTalk(cleaned) && delta.IsEmpty() && !(affirmation && sess.AwaitingConfirmation()) {
		if isNew {
			o.saveSession(ctx, sess)
		}
		o.metrics.turn(TurnSmallTalk, false)
		log.Debug("Small talk turn")
		return &models.TurnResponse{
			Response:        smallTalkResponse,
			SessionID:       sess.ID,
			Phase:           sess.Phase,
			Affordances:     append([]models.Affordance(nil), purposeAffordances...),
			Recommendations: []models.ScoredCandidate{},
		}
	}

	cacheKey := cache.Key(sess.UserID, cleaned, string(sess.Phase), sess.Preferences.Fingerprint())
	if o.cache != nil {
		cached, hit := o.cache.Get(cacheKey)
		o.metrics.cacheLookup(hit)
		if hit {
			if isNew {
				o.saveSession(ctx, sess)
			}
			cached.SessionID = sess.ID
			cached.CacheHit = true
			o.metrics.turn(TurnCacheHit, false)
			log.Debug("Response cache hit")
			return &cached
		}
	}

	before := *sess
	prefs := sess.Preferences.Clone()
	prefs.Merge(delta)

	d := o.complete(ctx, sess, prefs, req.Message, cleaned, log)
	if d.patch != nil {
		prefs.Merge(*d.patch)
	}

	decision := ApplyConvergencePolicy(ConvergenceInput{
		ModelPhase:  d.phase,
		Session:     before,
		Preferences: prefs,
		ExplicitAsk: isExplicitAsk(cleaned),
		Affirmation: affirmation,
	}, o.config.Convergence)

	resp := &models.TurnResponse{
		Response:        d.response,
		SessionID:       sess.ID,
		Phase:           decision.Phase,
		Affordances:     d.affordances,
		Recommendations: []models.ScoredCandidate{},
		DatabaseFilter:  d.databaseFilter,
		Degraded:        d.degraded,
	}
	outcome := TurnConversation

	switch decision.Action {
	case ActionConfirm:
		resp.Response = confirmationSummary(prefs)
		resp.Affordances = append([]models.Affordance(nil), confirmationAffordances...)
		outcome = TurnConfirmation
	case ActionRecommend:
		outcome = o.recommend(ctx, sess, prefs, resp)
	}
	resp.Affordances = withStandardAffordances(resp.Affordances)

	sess.Preferences = prefs
	sess.Phase = resp.Phase
	sess.ConfirmedFingerprint = decision.ConfirmedFingerprint
	sess.Confirmed = decision.Confirmed
	sess.TurnCount++
	sess.UpdatedAt = o.now()
	o.saveSession(ctx, sess)

	if o.cache != nil && !resp.Degraded {
		o.cache.Set(cacheKey, *resp)
	}

	o.metrics.turn(outcome, resp.Degraded)
	log.WithFields(logrus.Fields{
		"phase":           resp.Phase,
		"outcome":         outcome,
		"trigger":         decision.Trigger,
		"degraded":        resp.Degraded,
		"recommendations": len(resp.Recommendations),
		"duration_ms":     time.Since(start).Milliseconds(),
	}).Info("Conversation turn processed")

	return resp
}

// recommend runs the engine and fills resp, or turns it into a narrowing
// question when too many candidates matched.
func (o *ConversationOrchestrator) recommend(
	ctx context.Context,
	sess *models.ConversationSession,
	prefs models.Preferences,
	resp *models.TurnResponse,
) string {
	filter := models.FilterFromPreferences(prefs)
	resp.DatabaseFilter = &filter

	if o.engine == nil {
		return TurnConversation
	}

	result, _ := o.engine.recommend(ctx, filter, prefs, sess.UserID, sess.ID)

	if result.CandidateCount > o.config.NarrowingThreshold {
		askBudget := prefs.Budget == nil || prefs.Budget.Source == models.BudgetFromPurpose
		if askBudget || len(prefs.Brands) == 0 {
			resp.Phase = models.PhaseDiscovery
			resp.Response = narrowingQuestion(result.CandidateCount, askBudget)
			resp.Affordances = narrowingAffordances(askBudget)
			return TurnNarrowing
		}
	}

	if len(result.Candidates) == 0 {
		resp.Response = noResultsResponse
		return TurnConversation
	}

	resp.Recommendations = result.Candidates
	resp.Response = recommendationSummary(prefs, result.Candidates)
	return TurnRecommendation
}

// complete asks the model for a draft, falling back to a static reply.
func (o *ConversationOrchestrator) complete(
	ctx context.Context,
	sess *models.ConversationSession,
	prefs models.Preferences,
	utterance, cleaned string,
	log *logrus.Entry,
) completion {
	if o.completer == nil {
		o.metrics.llmFallbacks.WithLabelValues("disabled").Inc()
		return o.fallback(sess, cleaned)
	}

	prompt := llm.BuildSystemPrompt(llm.PromptContext{
		Phase:       sess.Phase,
		Preferences: prefs,
		TurnCount:   sess.TurnCount,
		Sample:      o.sample(ctx, prefs),
	})

	callCtx := ctx
	if o.config.LLMTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, o.config.LLMTimeout)
		defer cancel()
	}

	result, err := o.completer.Complete(callCtx, prompt, utterance)
	if err != nil {
		reason := "error"
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			reason = "timeout"
		case errors.Is(err, llm.ErrInvalidResponse), errors.Is(err, llm.ErrEmptyResponse):
			reason = "invalid_response"
		}
		o.metrics.llmFallbacks.WithLabelValues(reason).Inc()
		log.WithError(err).WithField("reason", reason).Warn("Model completion failed, using fallback reply")
		return o.fallback(sess, cleaned)
	}
	if result.Fallback {
		o.metrics.llmFallbacks.WithLabelValues("secondary_model").Inc()
	}

	return completion{
		draft: draft{
			response:       result.Response,
			phase:          result.Phase,
			affordances:    append([]models.Affordance(nil), result.UIElements...),
			databaseFilter: result.DatabaseFilter,
		},
		patch: result.CollectedData,
	}
}

type completion struct {
	draft
	patch *models.PreferenceDelta
}

func (o *ConversationOrchestrator) fallback(sess *models.ConversationSession, cleaned string) completion {
	return completion{draft: draft{
		response:    fallbackResponse,
		phase:       modelPhaseOr(sess.Phase, models.PhaseDiscovery),
		affordances: fallbackAffordances(cleaned),
		degraded:    true,
	}}
}

// sample returns a few catalog items in the current window for the prompt.
func (o *ConversationOrchestrator) sample(ctx context.Context, prefs models.Preferences) []models.CandidateProduct {
	if o.catalog == nil || o.config.SampleSize <= 0 {
		return nil
	}
	if o.config.CatalogTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.config.CatalogTimeout)
		defer cancel()
	}

	products, err := o.catalog.Query(ctx, models.FilterFromPreferences(prefs))
	if err != nil {
		o.logger.WithError(err).Debug("Catalog sample unavailable")
		return nil
	}
	if len(products) > o.config.SampleSize {
		products = products[:o.config.SampleSize]
	}
	return products
}

func (o *ConversationOrchestrator) loadSession(ctx context.Context, req models.TurnRequest) (*models.ConversationSession, bool) {
	id := req.SessionID
	if id != "" {
		sess, err := o.sessions.Get(ctx, id)
		if err == nil {
			if req.UserID != "" {
				sess.UserID = req.UserID
			}
			return sess, false
		}
		if !errors.Is(err, session.ErrNotFound) {
			o.logger.WithError(err).WithField("session_id", id).Warn("Session lookup failed, starting a new session")
		}
	} else {
		id = o.newID()
	}

	now := o.now()
	return &models.ConversationSession{
		ID:        id,
		UserID:    req.UserID,
		Phase:     models.PhaseInitial,
		CreatedAt: now,
		UpdatedAt: now,
	}, true
}

func (o *ConversationOrchestrator) saveSession(ctx context.Context, sess *models.ConversationSession) {
	outcome := succeeded("save_session")
	if err := o.sessions.Put(ctx, sess); err != nil {
		outcome = failed("save_session", err)
	}
	outcome.Log(o.logger, logrus.Fields{"session_id": sess.ID})
}

// GetSession returns the stored state of a session.
func (o *ConversationOrchestrator) GetSession(ctx context.Context, id string) (*models.ConversationSession, error) {
	return o.sessions.Get(ctx, id)
}
