// Player-facing texts. The game speaks Russian only; validation error texts
// live in the errs error map.
package game

const (
	textWelcome = "Добро пожаловать в игру в города!\n" +
		"Чтобы узнать правила игры введите команду /rules.\n" +
		"Чтобы начать игру, назовите первый город или используйте команды для создания или присоединения к комнате:\n" +
		"/create_room - создать комнату\n" +
		"/join_room - присоединиться к комнате"

	textRules = "<b>Правила игры в города:</b>\n\n" +
		"<b>Цель игры:</b> Называть города не повторяясь. \n\n" +
		"<b>Какие города:</b> В игре участвуют только города России.\n\n" +
		"<b>Начало игры:</b> Первый игрок называет любой город России.\n\n" +
		"<b>Следующий ход:</b> Следующий игрок должен назвать город, который начинается на последнюю букву предыдущего города.\n\n" +
		"<b>Игра вдвоём:</b> \n\n" +
		"<b>•</b> При игре вдвоем у каждого игрока есть три жизни и 30 секунд на ход. Если игрок не назвал город в течение 30 секунд у него отнимается одна жизнь, а ход переходит сопернику.\n\n" +
		"<b>•</b> Во время хода соперника ему можно отправить одно сообщение.\n\n" +
		"<b>Исключения:</b> \n\n" +
		"<b>•</b> Буквы 'Ъ', 'Ь', 'Ы' не учитываются. Если город заканчивается на одну из этих букв, используется предпоследняя буква.\n\n" +
		"<b>•</b> Город можно назвать только один раз за игру.\n\n" +
		"<b>Победа:</b> Побеждает тот, кто назовет город, когда у оппонента нет вариантов для продолжения.\n\n" +
		"<b>Конец игры:</b> Если вы захотите закончить игру раньше, введите команду /stop.\n\n" +
		"<b>Удачи!</b>"

	textRoomCreated = "Комната создана! Код комнаты: %s\n" +
		"Другой игрок может присоединиться, введя команду /join_room и указав код комнаты."

	textEnterRoomCode = "Введите код комнаты:"

	textJoinedRoom = "Вы присоединились к комнате %s. Сейчас ход соперника. У него есть 30 секунд. Дождитесь окончания его хода."

	textOpponentJoined = "Другой игрок присоединился к комнате. Сейчас ваш ход. У вас есть 30 секунд. Начните игру, назвав любой город."

	textWaitingForOpponent = "Комната %s ещё ждёт второго игрока. Сообщите ему код комнаты."

	textYourTurn = "Ваш ход! Назовите город на букву '%s'"

	textOpponentTurn = "Ход противника на букву '%s'"

	textTimeoutSelf = "Время вышло! У вас осталось %d жизней. Ход соперника."

	textTimeoutOpponent = "Время противника вышло! У него осталось %d жизней. Ваш ход."

	textLivesLost = "У вас закончились жизни. Вы проиграли."

	textLivesWon = "Противник потерял все жизни. Вы победили!"

	textNoContinuationWon = "Поздравляем! Вы победили: у соперника нет вариантов для продолжения."

	textNoContinuationLost = "У вас не осталось вариантов для продолжения. Вы проиграли."

	textSideForwarded = "Сообщение от вашего соперника: %s"

	textSideAck = "Ваше сообщение отправлено сопернику."

	textSolitaryWin = "Поздравляем! Вы выиграли, я не смог найти город на последнюю букву."

	textRoomGameOver = "Игра окончена. Если хотите начать новую игру, создайте новую комнату или присоединитесь к существующей."

	textSolitaryGameOver = "Игра окончена. Если хотите начать новую игру, напишите любой город."
)
