package service

import (
	"context"

	"padelcourt/cmd/internal/domain/entity"
	"padelcourt/cmd/internal/integration/mail"
	"padelcourt/cmd/internal/utils"
	"padelcourt/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type ContactRepository interface {
	Create(ctx context.Context, msg *entity.ContactMessage) error
}

type ContactRequest struct {
	Name    string `json:"name" validate:"required,notblank,max=100"`
	Email   string `json:"email" validate:"required,email,max=255"`
	Subject string `json:"subject" validate:"required,notblank,max=200"`
	Message string `json:"message" validate:"required,notblank,max=5000"`
}

type DefaultContactService struct {
	ContactRepo ContactRepository
	AdminEmail  string
	Effects     *SideEffects
	Validate    *validator.Validate
}

func NewContactService(contactRepo ContactRepository, adminEmail string, effects *SideEffects, validate *validator.Validate) *DefaultContactService {
	return &DefaultContactService{ContactRepo: contactRepo, AdminEmail: adminEmail, Effects: effects, Validate: validate}
}

// SubmitContact stores the message and mails the admin inbox and the sender.
func (c *DefaultContactService) SubmitContact(ctx context.Context, req *ContactRequest) (*ContactResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := c.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	msg := &entity.ContactMessage{Name: req.Name, Email: req.Email, Subject: req.Subject, Message: req.Message}
	if err := c.ContactRepo.Create(ctx, msg); err != nil {
		log.Errorf("failed to store contact message from %s: %v", req.Email, err)
		return nil, apierror.InternalServerError
	}

	if c.AdminEmail != "" {
		c.Effects.sendMail(ctx, mail.ContactAdminNotification(c.AdminEmail, msg.Name, msg.Email, msg.Subject, msg.Message))
	}
	c.Effects.sendMail(ctx, mail.ContactConfirmation(msg.Email, msg.Name, msg.Subject, msg.Message))

	return &ContactResponse{
		Success: true,
		Message: "Your message has been sent successfully. We will get back to you soon.",
		Data: map[string]any{
			"id":        msg.ID,
			"name":      msg.Name,
			"email":     msg.Email,
			"subject":   msg.Subject,
			"createdAt": utils.FormatTime(msg.CreatedAt),
		},
	}, nil
}
