package repository

import "github.com/m-mizutani/portochat/pkg/interfaces"

const collectionInteractions = "interactions"

var (
	_ interfaces.Repository = (*Firestore)(nil)
	_ interfaces.Repository = (*Memory)(nil)
)
