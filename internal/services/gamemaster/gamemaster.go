package gamemaster

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"finanzweg/internal/game/session"
	"finanzweg/internal/network"
)

// conn é o que o GameMaster precisa de uma conexão. *network.Client
// satisfaz a interface; os testes usam um fake com canal bufferizado.
type conn interface {
	Send() chan<- network.Message
	RemoteAddr() string
}

// Papel de uma conexão, atribuído no primeiro comando de vínculo
// (create/resume/join).
const (
	roleNone    = ""
	roleHost    = "host"
	roleStudent = "student"
)

// connState é o que o GameMaster sabe sobre uma conexão viva: a qual
// sessão ela pertence e em nome de quem ela fala. A conexão é anônima
// até o primeiro create/resume/join.
type connState struct {
	role     string
	code     string
	playerID string
}

// commandFunc processa um comando já roteado. Retornar um erro faz o
// GameMaster responder uma mensagem de erro SOMENTE ao solicitante.
type commandFunc func(c conn, cs *connState, payload json.RawMessage) error

// GameMaster implementa network.EventHandler e é o único dono do estado
// do jogo. Todos os seus métodos rodam na goroutine do Hub, então nenhum
// acesso a store/sessões precisa de lock.
type GameMaster struct {
	store    *session.Store
	conns    map[conn]*connState
	commands map[string]commandFunc
}

// New monta o GameMaster e registra o roteador de comandos.
func New(store *session.Store) *GameMaster {
	g := &GameMaster{
		store: store,
		conns: make(map[conn]*connState),
	}
	g.commands = map[string]commandFunc{
		MsgHostCreate:   g.hostCreate,
		MsgHostResume:   g.hostResume,
		MsgHostStart:    g.hostStart,
		MsgHostAdvance:  g.hostAdvance,
		MsgHostContinue: g.hostContinue,
		MsgHostEdit:     g.hostEdit,

		MsgStudentJoin:      g.studentJoin,
		MsgStudentResume:    g.studentResume,
		MsgStudentSubmit:    g.studentSubmit,
		MsgStudentHeartbeat: g.studentHeartbeat,
	}
	return g
}

// ============================================================================
// network.EventHandler
// ============================================================================

func (g *GameMaster) OnConnect(c *network.Client) {
	g.handleConnect(c)
}

func (g *GameMaster) OnDisconnect(c *network.Client) {
	g.handleDisconnect(c)
}

func (g *GameMaster) OnMessage(c *network.Client, msg network.Message) {
	g.handleMessage(c, msg)
}

func (g *GameMaster) handleConnect(c conn) {
	g.conns[c] = &connState{}
	log.Printf("[GameMaster] Client connected: %s", c.RemoteAddr())
}

// handleDisconnect remove só o registro da conexão. O jogador continua na
// sessão com todo o estado: uma queda de rede na sala de aula se resolve
// com student/resume, não com recomeço.
func (g *GameMaster) handleDisconnect(c conn) {
	delete(g.conns, c)
	log.Printf("[GameMaster] Client disconnected: %s", c.RemoteAddr())
}

func (g *GameMaster) handleMessage(c conn, msg network.Message) {
	cs, ok := g.conns[c]
	if !ok {
		// Mensagem de uma conexão que nunca passou por OnConnect; só
		// acontece em teste mal montado, mas não custa ser tolerante.
		cs = &connState{}
		g.conns[c] = cs
	}

	fn, ok := g.commands[msg.Type]
	if !ok {
		g.reply(c, newErrorMessage(fmt.Errorf("%w: %q", errUnknownMessage, msg.Type)))
		return
	}

	if err := fn(c, cs, msg.Payload); err != nil {
		g.reply(c, newErrorMessage(err))
	}
}

// ============================================================================
// Comandos do professor
// ============================================================================

func (g *GameMaster) hostCreate(c conn, cs *connState, _ json.RawMessage) error {
	sess := g.store.Create()
	cs.role = roleHost
	cs.code = sess.Code
	cs.playerID = ""

	log.Printf("[GameMaster] Session %s created by %s", sess.Code, c.RemoteAddr())
	g.reply(c, newSessionCreatedMessage(sess.Code))
	g.reply(c, newStateMessage(sess.Snapshot("")))
	return nil
}

func (g *GameMaster) hostResume(c conn, cs *connState, payload json.RawMessage) error {
	var req hostResumePayload
	if err := decode(payload, &req); err != nil {
		return err
	}
	sess, err := g.store.Get(normalizeCode(req.Code))
	if err != nil {
		return err
	}
	cs.role = roleHost
	cs.code = sess.Code
	cs.playerID = ""

	g.reply(c, newStateMessage(sess.Snapshot("")))
	return nil
}

func (g *GameMaster) hostStart(c conn, cs *connState, payload json.RawMessage) error {
	var req hostStartPayload
	if err := decode(payload, &req); err != nil {
		return err
	}
	sess, err := g.hostSession(cs)
	if err != nil {
		return err
	}
	if err := sess.Start(req.Mode); err != nil {
		return err
	}
	log.Printf("[GameMaster] Session %s started in %s mode", sess.Code, req.Mode)
	g.broadcast(sess)
	return nil
}

func (g *GameMaster) hostAdvance(c conn, cs *connState, _ json.RawMessage) error {
	sess, err := g.hostSession(cs)
	if err != nil {
		return err
	}
	if err := sess.Advance(); err != nil {
		return err
	}
	if sess.Finished {
		log.Printf("[GameMaster] Session %s finished", sess.Code)
	}
	g.broadcast(sess)
	return nil
}

func (g *GameMaster) hostContinue(c conn, cs *connState, _ json.RawMessage) error {
	sess, err := g.hostSession(cs)
	if err != nil {
		return err
	}
	if err := sess.ContinueAfterPause(); err != nil {
		return err
	}
	g.broadcast(sess)
	return nil
}

func (g *GameMaster) hostEdit(c conn, cs *connState, payload json.RawMessage) error {
	var req hostEditPayload
	if err := decode(payload, &req); err != nil {
		return err
	}
	sess, err := g.hostSession(cs)
	if err != nil {
		return err
	}
	dec := newDecision(req.ChoiceID, req.Investment)
	if err := sess.EditDecision(req.PlayerID, req.Turn, req.CardType, dec); err != nil {
		return err
	}
	log.Printf("[GameMaster] Session %s: host edited turn %d/%s for player %s",
		sess.Code, req.Turn, req.CardType, req.PlayerID)
	g.broadcast(sess)
	return nil
}

// ============================================================================
// Comandos dos alunos
// ============================================================================

func (g *GameMaster) studentJoin(c conn, cs *connState, payload json.RawMessage) error {
	var req studentJoinPayload
	if err := decode(payload, &req); err != nil {
		return err
	}
	sess, err := g.store.Get(normalizeCode(req.Code))
	if err != nil {
		return err
	}
	p, err := sess.Join(req.Name)
	if err != nil {
		return err
	}
	cs.role = roleStudent
	cs.code = sess.Code
	cs.playerID = p.ID

	log.Printf("[GameMaster] Player %q joined session %s", p.Name, sess.Code)
	g.reply(c, newStudentJoinedMessage(sess.Code, p.ID, p.Name))
	g.broadcast(sess)
	return nil
}

func (g *GameMaster) studentResume(c conn, cs *connState, payload json.RawMessage) error {
	var req studentResumePayload
	if err := decode(payload, &req); err != nil {
		return err
	}
	sess, err := g.store.Get(normalizeCode(req.Code))
	if err != nil {
		return err
	}
	p, err := sess.Player(req.PlayerID)
	if err != nil {
		return err
	}
	cs.role = roleStudent
	cs.code = sess.Code
	cs.playerID = p.ID
	sess.Heartbeat(p.ID)

	log.Printf("[GameMaster] Player %q resumed session %s", p.Name, sess.Code)
	g.reply(c, newStudentJoinedMessage(sess.Code, p.ID, p.Name))
	g.broadcast(sess)
	return nil
}

func (g *GameMaster) studentSubmit(c conn, cs *connState, payload json.RawMessage) error {
	var req studentSubmitPayload
	if err := decode(payload, &req); err != nil {
		return err
	}
	sess, p, err := g.studentSession(cs)
	if err != nil {
		return err
	}
	dec := newDecision(req.ChoiceID, req.Investment)
	if err := sess.Submit(p, req.CardType, dec); err != nil {
		return err
	}
	g.broadcast(sess)
	return nil
}

func (g *GameMaster) studentHeartbeat(c conn, cs *connState, _ json.RawMessage) error {
	sess, p, err := g.studentSession(cs)
	if err != nil {
		return err
	}
	if err := sess.Heartbeat(p); err != nil {
		return err
	}
	g.broadcast(sess)
	return nil
}

// ============================================================================
// Infraestrutura
// ============================================================================

// hostSession resolve a sessão de uma conexão que precisa ser professor.
func (g *GameMaster) hostSession(cs *connState) (*session.Session, error) {
	if cs.role != roleHost {
		return nil, errNotHost
	}
	return g.store.Get(cs.code)
}

// studentSession resolve (sessão, playerID) de uma conexão que precisa
// ser aluno vinculado.
func (g *GameMaster) studentSession(cs *connState) (*session.Session, string, error) {
	if cs.role != roleStudent {
		return nil, "", errNotStudent
	}
	sess, err := g.store.Get(cs.code)
	if err != nil {
		return nil, "", err
	}
	return sess, cs.playerID, nil
}

// broadcast fan-out: cada conexão da sessão recebe a SUA projeção. O
// professor recebe o bundle do turno global; cada aluno, o do próprio
// turno pessoal.
func (g *GameMaster) broadcast(sess *session.Session) {
	for c, cs := range g.conns {
		if cs.code != sess.Code {
			continue
		}
		g.reply(c, newStateMessage(sess.Snapshot(cs.playerID)))
	}
}

// reply envia sem bloquear. Se o buffer de saída da conexão estiver
// cheio, a mensagem é descartada; o próximo broadcast traz o estado
// completo de qualquer forma.
func (g *GameMaster) reply(c conn, msg network.Message) {
	select {
	case c.Send() <- msg:
	default:
		log.Printf("[GameMaster] Dropping %s to %s: send buffer full", msg.Type, c.RemoteAddr())
	}
}

func decode(payload json.RawMessage, dst any) error {
	if len(payload) == 0 {
		return fmt.Errorf("%w: empty payload", errBadPayload)
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		return fmt.Errorf("%w: %v", errBadPayload, err)
	}
	return nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func newDecision(choiceID string, inv *investmentPayload) session.Decision {
	dec := session.Decision{ChoiceID: choiceID}
	if inv != nil {
		dec.Extra = &session.Investment{Initial: inv.Initial, Monthly: inv.Monthly}
	}
	return dec
}
