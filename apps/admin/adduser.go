package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/lumen-youth/lumen/core"
	"github.com/lumen-youth/lumen/core/user"
)

// addUser updates or creates a staff user.User
func (cli *commandLine) addUser(name, uname, email, pwd string, isAdmin bool) error {
	ctx := context.Background()
	name = core.CleanString(name)
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	lookup := uname
	if lookup == "" {
		lookup = email
	}
	usr, err := cli.usrRepo.GetUser(ctx, user.GetFilter{UsernameOrEmail: lookup})
	exists := err == nil
	if err != nil && errors.Cause(err) != user.ErrNotFound {
		return err
	}

	now := user.NowFunc().UTC()
	if !exists {
		usr = user.User{CreatedAt: now}
	}
	if uname != "" {
		usr.Username = uname
	}
	if email != "" {
		usr.Email = email
	}
	switch {
	case name != "":
		usr.Name = name
	case usr.Name == "":
		usr.Name = usr.Username
		if usr.Name == "" {
			usr.Name = usr.Email
		}
	}
	if isAdmin {
		usr.Roles = user.AdminRoles
	} else if !usr.IsStaff() {
		usr.Roles = user.EditorRoles
	}
	usr.SetActive(true)
	usr.UpdatedAt = now
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}

	if exists {
		_, err = cli.usrRepo.UpdateUser(ctx, usr)
	} else {
		_, err = cli.usrRepo.CreateUser(ctx, usr)
	}
	return err
}
