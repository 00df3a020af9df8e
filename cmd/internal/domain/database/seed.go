package database

import (
	_ "embed"
	"errors"
	"fmt"

	"padelcourt/cmd/internal/auth"
	"padelcourt/cmd/internal/domain/entity"

	"github.com/labstack/gommon/log"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed seed.yaml
var seedFile []byte

type seedData struct {
	Users []struct {
		Email     string `yaml:"email"`
		Password  string `yaml:"password"`
		FirstName string `yaml:"firstName"`
		LastName  string `yaml:"lastName"`
		Role      string `yaml:"role"`
	} `yaml:"users"`
	Courts []struct {
		Name        string  `yaml:"name"`
		Color       string  `yaml:"color"`
		Description string  `yaml:"description"`
		OpeningTime float64 `yaml:"openingTime"`
		ClosingTime float64 `yaml:"closingTime"`
	} `yaml:"courts"`
}

// Seed inserts the bundled accounts and courts. Existing rows, matched by
// email or court name, are left alone apart from court hours.
func Seed(db *gorm.DB) error {
	var data seedData
	if err := yaml.Unmarshal(seedFile, &data); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	for _, u := range data.Users {
		var existing entity.User
		err := db.Where("email = ?", u.Email).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hash, err := auth.HashPassword(u.Password)
		if err != nil {
			return err
		}
		user := &entity.User{
			Email:        u.Email,
			PasswordHash: hash,
			FirstName:    u.FirstName,
			LastName:     u.LastName,
			Role:         u.Role,
			Language:     "en",
			IsActive:     true,
		}
		if err = db.Create(user).Error; err != nil {
			return err
		}
		log.Infof("seeded user %s", u.Email)
	}

	for _, c := range data.Courts {
		var existing entity.Court
		err := db.Where("name = ?", c.Name).First(&existing).Error
		if err == nil {
			err = db.Model(&existing).Updates(map[string]any{
				"opening_time": c.OpeningTime,
				"closing_time": c.ClosingTime,
			}).Error
			if err != nil {
				return err
			}
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		desc := c.Description
		court := &entity.Court{
			Name:        c.Name,
			Color:       c.Color,
			Description: &desc,
			OpeningTime: c.OpeningTime,
			ClosingTime: c.ClosingTime,
			IsActive:    true,
		}
		if err = db.Create(court).Error; err != nil {
			return err
		}
		log.Infof("seeded court %s", c.Name)
	}
	return nil
}
