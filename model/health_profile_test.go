package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeBMI(t *testing.T) {
	bmi, ok := ComputeBMI(175, 70)
	assert.True(t, ok)
	assert.Equal(t, 22.86, bmi)

	bmi, ok = ComputeBMI(160, 55.5)
	assert.True(t, ok)
	assert.Equal(t, 21.68, bmi)
}

func TestComputeBMI_NotComputable(t *testing.T) {
	_, ok := ComputeBMI(0, 70)
	assert.False(t, ok)

	_, ok = ComputeBMI(175, 0)
	assert.False(t, ok)

	_, ok = ComputeBMI(-170, 70)
	assert.False(t, ok)
}

func TestHealthProfile_BMIOnSave(t *testing.T) {
	db := setupTestDB(t, "profile_bmi", &User{}, &HealthProfile{})

	user := User{Username: "anna", Email: "anna@example.com", Role: RoleUser, Active: true}
	assert.NoError(t, db.Create(&user).Error)

	profile := HealthProfile{UserID: user.ID, Height: 175, Weight: 70, Age: 30, Gender: GenderFemale, Goal: "maintain", Active: true}
	assert.NoError(t, db.Create(&profile).Error)
	assert.NotNil(t, profile.BMI)
	assert.Equal(t, 22.86, *profile.BMI)

	// Changing weight recomputes the BMI on save.
	profile.Weight = 80
	assert.NoError(t, db.Save(&profile).Error)

	var found HealthProfile
	assert.NoError(t, db.First(&found, profile.ID).Error)
	assert.NotNil(t, found.BMI)
	assert.Equal(t, 26.12, *found.BMI)
}

func TestHealthProfile_BMIUnsetWhenHeightMissing(t *testing.T) {
	db := setupTestDB(t, "profile_bmi_unset", &User{}, &HealthProfile{})

	user := User{Username: "ben", Email: "ben@example.com", Role: RoleUser, Active: true}
	assert.NoError(t, db.Create(&user).Error)

	profile := HealthProfile{UserID: user.ID, Height: 0, Weight: 70, Age: 25, Gender: GenderMale, Active: true}
	assert.NoError(t, db.Create(&profile).Error)
	assert.Nil(t, profile.BMI)
}

func TestHealthProfile_OnePerUser(t *testing.T) {
	db := setupTestDB(t, "profile_unique", &User{}, &HealthProfile{})

	user := User{Username: "carl", Email: "carl@example.com", Role: RoleUser, Active: true}
	assert.NoError(t, db.Create(&user).Error)

	first := HealthProfile{UserID: user.ID, Height: 180, Weight: 75, Age: 40, Gender: GenderMale, Active: true}
	assert.NoError(t, db.Create(&first).Error)

	second := HealthProfile{UserID: user.ID, Height: 181, Weight: 76, Age: 40, Gender: GenderMale, Active: true}
	assert.Error(t, db.Create(&second).Error)
}
