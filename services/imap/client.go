package imap

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net"
	"sync"
	"time"

	"github.com/emersion/go-imap/client"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/customeros/mailharvest/config"
	"github.com/customeros/mailharvest/interfaces"
	harvesterrors "github.com/customeros/mailharvest/internal/errors"
	"github.com/customeros/mailharvest/internal/tracing"
)

const connectTimeout = 30 * time.Second

type IMAPClient struct {
	cfg         *config.MailClientConfig
	client      *client.Client
	clientMutex sync.Mutex
	status      interfaces.MailClientStatus
	statusMutex sync.RWMutex
}

func NewIMAPClient(cfg *config.MailClientConfig) interfaces.MailClient {
	return &IMAPClient{cfg: cfg}
}

// Connect establishes a connection to the IMAP server and logs in
func (s *IMAPClient) Connect(ctx context.Context) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "IMAPClient.Connect")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.SetTag("server", s.cfg.ImapServer)
	span.SetTag("port", s.cfg.ImapPort)
	span.SetTag("tls", s.cfg.ImapTLS)

	serverAddr := fmt.Sprintf("%s:%d", s.cfg.ImapServer, s.cfg.ImapPort)

	dialer := &net.Dialer{
		Timeout:   connectTimeout,
		KeepAlive: connectTimeout,
	}

	var c *client.Client
	var err error

	if s.cfg.ImapTLS {
		tlsConfig := &tls.Config{
			ServerName: s.cfg.ImapServer,
		}
		c, err = client.DialWithDialerTLS(dialer, serverAddr, tlsConfig)
	} else {
		c, err = client.DialWithDialer(dialer, serverAddr)
	}

	if err != nil {
		tracing.TraceErr(span, err)
		s.setStatus(false, err.Error())
		return errors.Wrapf(harvesterrors.ErrMailClientUnavailable, "failed to connect to %s: %v", serverAddr, err)
	}

	caps, err := c.Capability()
	if err != nil {
		c.Logout()
		tracing.TraceErr(span, err)
		s.setStatus(false, err.Error())
		return errors.Wrapf(harvesterrors.ErrMailClientUnavailable, "failed to get capabilities: %v", err)
	}
	log.Printf("[imap] Server capabilities: %v", caps)

	c.Timeout = connectTimeout
	err = c.Login(s.cfg.ImapUsername, s.cfg.ImapPassword)
	if err != nil {
		c.Logout()
		tracing.TraceErr(span, err)
		s.setStatus(false, err.Error())
		return errors.Wrapf(harvesterrors.ErrMailClientUnavailable, "failed to login as %s: %v", s.cfg.ImapUsername, err)
	}
	c.Timeout = 0 // No timeout for normal operations

	log.Printf("[imap] Successfully connected and logged in to %s", serverAddr)
	span.SetTag("success", true)

	s.clientMutex.Lock()
	s.client = c
	s.clientMutex.Unlock()
	s.setStatus(true, "")

	return nil
}

func (s *IMAPClient) Close() error {
	s.clientMutex.Lock()
	defer s.clientMutex.Unlock()

	if s.client == nil {
		return nil
	}

	err := s.client.Logout()
	s.client = nil
	s.setStatus(false, "")
	return err
}

func (s *IMAPClient) Status() interfaces.MailClientStatus {
	s.statusMutex.RLock()
	defer s.statusMutex.RUnlock()
	return s.status
}

func (s *IMAPClient) setStatus(connected bool, lastError string) {
	s.statusMutex.Lock()
	defer s.statusMutex.Unlock()
	s.status = interfaces.MailClientStatus{
		Connected:   connected,
		LastError:   lastError,
		LastChecked: time.Now(),
	}
}

func (s *IMAPClient) connectedClient() (*client.Client, error) {
	s.clientMutex.Lock()
	defer s.clientMutex.Unlock()

	if s.client == nil {
		return nil, harvesterrors.ErrMailClientUnavailable
	}
	return s.client, nil
}
